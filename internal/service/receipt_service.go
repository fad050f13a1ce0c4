package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/marginalwallet/wallet-api/internal/domain"
	"github.com/marginalwallet/wallet-api/internal/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	MaxImageSize      = 5 * 1024 * 1024 // 5MB
	MinImageWidth     = 50
	MinImageHeight    = 50
	ThumbnailWidth    = 200
	DisplayWidth      = 800
	JPEGQuality       = 85
	ReceiptURLExpiry  = 15 * time.Minute
	receiptKeyPattern = "receipts/%d/%d/%s/"
)

var (
	ErrImageTooLarge    = fmt.Errorf("file too large, maximum size is 5MB: %w", domain.ErrInvalidInput)
	ErrInvalidFormat    = fmt.Errorf("invalid format, supported: JPEG, PNG: %w", domain.ErrInvalidInput)
	ErrImageTooSmall    = fmt.Errorf("image too small, minimum 50x50 pixels: %w", domain.ErrInvalidInput)
	ErrInvalidImageData = fmt.Errorf("invalid image data: %w", domain.ErrInvalidInput)
)

// AllowedExtensions maps accepted receipt file extensions to content types
var AllowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// receiptVariants are stored under the receipt base key; width 0 keeps the original size
var receiptVariants = []struct {
	name     string
	maxWidth int
}{
	{"thumb", ThumbnailWidth},
	{"display", DisplayWidth},
	{"original", 0},
}

// ReceiptService stores resized receipt images for movements
type ReceiptService struct {
	eventSink
	store        domain.ObjectStore
	movementRepo domain.MovementRepository
	guard        *OwnershipGuard
}

// NewReceiptService creates a new ReceiptService. store may be nil when storage is not configured.
func NewReceiptService(store domain.ObjectStore, movementRepo domain.MovementRepository, guard *OwnershipGuard) *ReceiptService {
	return &ReceiptService{
		store:        store,
		movementRepo: movementRepo,
		guard:        guard,
	}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.store != nil
}

// validateAndDecode checks size, extension and dimensions and returns the upright image
func validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return nil, ErrInvalidFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImageData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinImageWidth || bounds.Dy() < MinImageHeight {
		return nil, ErrImageTooSmall
	}
	return img, nil
}

func variantKey(baseKey, variant string) string {
	return baseKey + variant + ".jpg"
}

// UploadReceipt stores the image as thumbnail, display and original JPEGs and
// attaches them to the movement, replacing any previous receipt.
func (s *ReceiptService) UploadReceipt(ctx context.Context, userID, movementID int32, data []byte, filename string) (*domain.ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	movement, err := s.guard.Movement(ctx, userID, movementID)
	if err != nil {
		return nil, err
	}

	img, err := validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	baseKey := fmt.Sprintf(receiptKeyPattern, userID, movementID, uuid.New().String())
	uploaded, err := s.uploadVariants(ctx, baseKey, img)
	if err != nil {
		s.deleteKeys(context.WithoutCancel(ctx), uploaded)
		return nil, err
	}

	if err := s.movementRepo.SetReceiptKey(ctx, userID, movementID, &baseKey); err != nil {
		s.deleteKeys(ctx, uploaded)
		return nil, err
	}

	if previous := movement.ReceiptKey; previous != nil {
		domain.AfterCommit(ctx, func() { s.PurgeKey(context.WithoutCancel(ctx), *previous) })
	}

	urls, err := s.presign(ctx, baseKey)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeReceipt, map[string]int32{"movement_id": movementID}))
	return urls, nil
}

// uploadVariants encodes and stores every variant concurrently and returns the keys written
func (s *ReceiptService) uploadVariants(ctx context.Context, baseKey string, img image.Image) ([]string, error) {
	var (
		mu       sync.Mutex
		uploaded = make([]string, 0, len(receiptVariants))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, variant := range receiptVariants {
		g.Go(func() error {
			processed := img
			if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
				processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
			}

			var buf bytes.Buffer
			if err := imaging.Encode(&buf, processed, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
				return fmt.Errorf("failed to encode %s variant: %w", variant.name, err)
			}

			key := variantKey(baseKey, variant.name)
			if _, err := s.store.Upload(gctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
				return fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
			}

			mu.Lock()
			uploaded = append(uploaded, key)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return uploaded, err
}

// GetReceipt returns presigned links to the movement's receipt variants
func (s *ReceiptService) GetReceipt(ctx context.Context, userID, movementID int32) (*domain.ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, domain.ErrStorageNotConfigured
	}

	movement, err := s.guard.Movement(ctx, userID, movementID)
	if err != nil {
		return nil, err
	}
	if movement.ReceiptKey == nil {
		return nil, domain.ErrReceiptNotFound
	}
	return s.presign(ctx, *movement.ReceiptKey)
}

// DeleteReceipt detaches the receipt and removes its objects once the change commits
func (s *ReceiptService) DeleteReceipt(ctx context.Context, userID, movementID int32) error {
	if !s.IsEnabled() {
		return domain.ErrStorageNotConfigured
	}

	movement, err := s.guard.Movement(ctx, userID, movementID)
	if err != nil {
		return err
	}
	if movement.ReceiptKey == nil {
		return domain.ErrReceiptNotFound
	}

	if err := s.movementRepo.SetReceiptKey(ctx, userID, movementID, nil); err != nil {
		return err
	}

	baseKey := *movement.ReceiptKey
	domain.AfterCommit(ctx, func() { s.PurgeKey(context.WithoutCancel(ctx), baseKey) })

	s.publishEvent(ctx, userID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeReceipt, map[string]int32{"movement_id": movementID}))
	return nil
}

// PurgeMovement removes the stored receipt of a deleted movement, if any
func (s *ReceiptService) PurgeMovement(ctx context.Context, movement *domain.Movement) {
	if !s.IsEnabled() || movement.ReceiptKey == nil {
		return
	}
	s.PurgeKey(ctx, *movement.ReceiptKey)
}

// PurgeKey deletes every variant under baseKey. Failures are logged, not returned.
func (s *ReceiptService) PurgeKey(ctx context.Context, baseKey string) {
	keys := make([]string, 0, len(receiptVariants))
	for _, variant := range receiptVariants {
		keys = append(keys, variantKey(baseKey, variant.name))
	}
	s.deleteKeys(ctx, keys)
}

func (s *ReceiptService) deleteKeys(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Failed to delete receipt object")
		}
	}
}

func (s *ReceiptService) presign(ctx context.Context, baseKey string) (*domain.ReceiptURLs, error) {
	urls := make(map[string]string, len(receiptVariants))
	for _, variant := range receiptVariants {
		url, err := s.store.PresignGet(ctx, variantKey(baseKey, variant.name), ReceiptURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s variant: %w", variant.name, err)
		}
		urls[variant.name] = url
	}

	return &domain.ReceiptURLs{
		Original:  urls["original"],
		Display:   urls["display"],
		Thumbnail: urls["thumb"],
		ExpiresAt: time.Now().Add(ReceiptURLExpiry).UTC(),
	}, nil
}

