package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"sollog/internal/client/capture"
)

// Record is the CLI's capture flow: it streams a local media file through
// the capture machine (the stand-in for a camera feed), confirms with the
// user, then encrypts and uploads the capture.
func (a *App) Record(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Path to the media file to record", outWriter)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	title, err := GetSimpleText(a.reader, "Title (empty for the sol-day default)", outWriter)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	m := capture.NewMachine()
	if err := m.StartRecording(); err != nil {
		return err
	}

	if err := a.streamFile(m, path); err != nil {
		log.Printf("error reading %s: %v", path, err)
		return err
	}

	if err := m.StopRecording(); err != nil {
		log.Printf("error: %v", err)
		return err
	}

	answer, err := GetSimpleText(a.reader, "Upload this capture? (y/n)", outWriter)
	if err != nil {
		return err
	}
	if answer != "y" {
		if err := m.Discard(); err != nil {
			return err
		}
		log.Println("Capture discarded")
		return nil
	}

	payload, err := m.Payload()
	if err != nil {
		return err
	}
	if err := m.BeginUpload(); err != nil {
		return err
	}

	res, uploadErr := a.diaryService.Upload(ctx, payload, title)
	if uploadErr != nil {
		m.FailUpload(uploadErr)
		log.Printf("Upload unsuccessful: %s", uploadErr.Error())
		return uploadErr
	}

	if err := m.FinishUpload(); err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Stored entry %s (#%d)", res.ID, res.SequenceNumber))
	return nil
}

func (a *App) streamFile(m *capture.Machine, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 64*1024)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if appendErr := m.AppendChunk(buf[:n]); appendErr != nil {
				return appendErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
