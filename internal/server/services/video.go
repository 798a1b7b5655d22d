// Package services holds the server-side application services: coordinating
// upload of encrypted entries into blob and record storage, owner-scoped
// retrieval with presigned fetch URLs, and account management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sollog/internal/common"
	"sollog/internal/cryptox"
	"sollog/internal/dbx"
	"sollog/internal/logging"
	"sollog/internal/server/blob"
	sc "sollog/internal/server/config"
	"sollog/internal/server/models"
	"sollog/internal/server/repositories/repomanager"
)

// withTx is a seam for tests.
var withTx = dbx.WithTx

// VideoView is what a retrieval returns to the owner: everything needed to
// fetch and decrypt one entry client-side. FetchURL is minted fresh on every
// request and expires after the configured validity window.
type VideoView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	FetchURL       string    `json:"fetchUrl,omitempty"`
	IV             string    `json:"iv"`
	JWK            string    `json:"jwk"`
	SequenceNumber int64     `json:"sequenceNumber"`
	SolDay         int       `json:"solDay"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UploadResult is the acknowledgement for a stored entry.
type UploadResult struct {
	ID             string `json:"id"`
	SequenceNumber int64  `json:"sequenceNumber"`
}

// VideoService implements upload and retrieval of encrypted video entries.
// All operations take the verified owner identity as an explicit parameter;
// nothing here ever trusts a client-supplied owner field.
type VideoService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	blobs  blob.Store
	config *sc.Config
	logger logging.Logger
}

func NewVideoService(db *sql.DB, repos repomanager.RepositoryManager, blobs blob.Store, cfg *sc.Config, logger logging.Logger) *VideoService {
	return &VideoService{
		db:     db,
		repos:  repos,
		blobs:  blobs,
		config: cfg,
		logger: logger.With("module", "video_service"),
	}
}

// storageKeyFor names the ciphertext blob. The owner id is embedded for
// coarse per-owner partitioning; the timestamp plus a random token make
// collisions between uploads impossible in practice.
func storageKeyFor(userID string) (string, error) {
	token, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("videos/%s/%d-%s", userID, time.Now().UnixNano(), token), nil
}

// solDayFor buckets a moment into a mission day, day 1 being the mission
// start date itself. A clock before the configured start clamps to day 1
// rather than producing day 0 or a negative day.
func solDayFor(start, now time.Time) int {
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 1
	}
	return days + 1
}

// Upload stores one encrypted entry for userID: ciphertext into the blob
// store, then the record (storage key, iv, exported key, owner, sequence
// number, sol day) into the database. The three key-material fields are set
// together here and never change afterwards.
//
// The sequence number is computed as max-existing+1 for this owner, with
// the read and the insert in one transaction so both see the same snapshot.
// Under default isolation two concurrent uploads from the same owner can
// still commit the same number; the ordering is advisory display metadata,
// and strict uniqueness would need a per-owner database sequence.
func (s *VideoService) Upload(ctx context.Context, userID string, ciphertext []byte, ivHex, jwk, title string) (*UploadResult, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	if len(ciphertext) == 0 {
		return nil, fmt.Errorf("%w: empty media payload", common.ErrValidation)
	}
	if _, err := cryptox.DecodeIV(ivHex); err != nil {
		return nil, err
	}
	if _, err := cryptox.ImportKey(jwk); err != nil {
		return nil, err
	}

	key, err := storageKeyFor(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}
	if err := s.blobs.Put(ctx, key, ciphertext); err != nil {
		return nil, err
	}

	var video *models.Video
	err = withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		videoRepo := s.repos.Videos(tx)

		maxSeq, err := videoRepo.MaxSequenceNumber(ctx, userID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		solDay := solDayFor(s.config.MissionStart, now)

		entryTitle := strings.TrimSpace(title)
		if entryTitle == "" {
			entryTitle = fmt.Sprintf("Log SOL %d", solDay)
		}

		video, err = videoRepo.Create(ctx, &models.Video{
			UserID:         userID,
			Title:          entryTitle,
			StorageKey:     key,
			IV:             ivHex,
			JWK:            jwk,
			SequenceNumber: maxSeq + 1,
			SolDay:         solDay,
		})
		return err
	})
	if err != nil {
		// Compensate: the ciphertext blob exists but no record points at
		// it. Remove it so nothing is orphaned; a cleanup failure is
		// logged but must not mask the original error.
		s.cleanupBlob(ctx, key)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageWrite, err)
	}

	s.logger.Info(ctx, "entry stored", "user_id", userID, "video_id", video.ID, "sequence", video.SequenceNumber)

	return &UploadResult{ID: video.ID, SequenceNumber: video.SequenceNumber}, nil
}

func (s *VideoService) cleanupBlob(ctx context.Context, key string) {
	if err := s.blobs.Delete(ctx, key); err != nil {
		s.logger.Error(ctx, "compensating blob delete failed", "storage_key", key, "error", err.Error())
	}
}

func (s *VideoService) view(ctx context.Context, v *models.Video) (*VideoView, error) {
	url, err := s.blobs.PresignGet(ctx, v.StorageKey, s.config.FetchURLValidityDuration)
	if err != nil {
		return nil, err
	}
	return &VideoView{
		ID:             v.ID,
		Title:          v.Title,
		FetchURL:       url,
		IV:             v.IV,
		JWK:            v.JWK,
		SequenceNumber: v.SequenceNumber,
		SolDay:         v.SolDay,
		CreatedAt:      v.CreatedAt,
	}, nil
}

// List returns all of userID's entries, newest first, each with a freshly
// minted fetch URL. Re-listing regenerates the URLs; nothing is cached.
func (s *VideoService) List(ctx context.Context, userID string) ([]*VideoView, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}

	rows, err := s.repos.Videos(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageRead, err)
	}

	result := make([]*VideoView, 0, len(rows))
	for _, v := range rows {
		view, err := s.view(ctx, v)
		if err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, nil
}

// Get returns a single entry view. An id that is absent or owned by someone
// else is common.ErrNotFound either way.
func (s *VideoService) Get(ctx context.Context, userID, id string) (*VideoView, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}

	v, err := s.repos.Videos(s.db).GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, v)
}

// UpdateTitle renames an owned entry and returns the refreshed view. The
// update and the re-read share one transaction so the returned view cannot
// show a concurrent writer's title.
func (s *VideoService) UpdateTitle(ctx context.Context, userID, id, title string) (*VideoView, error) {
	if userID == "" {
		return nil, common.ErrUnauthorized
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", common.ErrValidation)
	}

	var v *models.Video
	err := withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		videoRepo := s.repos.Videos(tx)
		if err := videoRepo.UpdateTitle(ctx, userID, id, title); err != nil {
			return err
		}
		var err error
		v, err = videoRepo.GetByID(ctx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, v)
}

// Delete removes an owned entry: ciphertext blob first, then the record.
// There is no cross-store transaction, so a crash can leave the record
// pointing at a deleted blob; because blob deletes are idempotent, retrying
// the whole operation converges to fully deleted.
func (s *VideoService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return common.ErrUnauthorized
	}

	videoRepo := s.repos.Videos(s.db)

	v, err := videoRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, v.StorageKey); err != nil {
		return err
	}

	if err := videoRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Lost a race with another delete of the same entry; the
			// outcome is what the caller asked for.
			return nil
		}
		return err
	}

	s.logger.Info(ctx, "entry deleted", "user_id", userID, "video_id", id)
	return nil
}
