package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sollog/internal/common"
)

func (a *App) List(ctx context.Context) error {
	views, err := a.diaryService.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	if len(views) == 0 {
		printlnFn("No entries yet")
		return nil
	}
	for _, v := range views {
		printlnFn(fmt.Sprintf("%s  #%-3d sol %-4d %s  %s",
			v.ID, v.SequenceNumber, v.SolDay, v.CreatedAt.Format("2006-01-02"), v.Title))
	}
	return nil
}

// Play fetches and decrypts one entry, writing the plaintext to the
// configured output directory.
func (a *App) Play(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry id", outWriter)
	if err != nil {
		return err
	}

	plaintext, view, err := a.diaryService.Play(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAuthentication):
			// Terminal: retrying with the same inputs cannot succeed.
			log.Println("Unable to decrypt this entry; its ciphertext or key material is damaged")
		case errors.Is(err, common.ErrNotFound):
			log.Println("No such entry")
		default:
			log.Printf("Playback unsuccessful: %s", err.Error())
		}
		return err
	}

	out := filepath.Join(a.config.OutputDir, view.ID+".webm")
	if err := os.WriteFile(out, plaintext, 0o600); err != nil {
		log.Printf("error writing %s: %v", out, err)
		return err
	}

	printlnFn(fmt.Sprintf("Decrypted %q to %s", view.Title, out))
	return nil
}

func (a *App) Rename(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry id", outWriter)
	if err != nil {
		return err
	}
	title, err := GetSimpleText(a.reader, "New title", outWriter)
	if err != nil {
		return err
	}

	view, err := a.diaryService.Rename(ctx, id, title)
	if err != nil {
		log.Printf("Rename unsuccessful: %s", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Renamed to %q", view.Title))
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Entry id", outWriter)
	if err != nil {
		return err
	}

	answer, err := GetSimpleText(a.reader, "Delete this entry and its ciphertext? (y/n)", outWriter)
	if err != nil || answer != "y" {
		return err
	}

	if err := a.diaryService.Delete(ctx, id); err != nil {
		log.Printf("Delete unsuccessful: %s", err.Error())
		return err
	}
	printlnFn("Deleted")
	return nil
}
