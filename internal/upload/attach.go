package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/meur/modcatalog/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrUploadFailed covers transport errors and rejected uploads. No retry is attempted.
	ErrUploadFailed     = errors.New("upload failed")
	ErrNotPermitted     = errors.New("file attach is not permitted for this mod")
	ErrAttachInProgress = errors.New("an attach is already in progress for this mod")
	ErrFileTooLarge     = errors.New("file exceeds the size limit")
)

// State is a step of the attach flow
type State int

const (
	StateIdle State = iota
	StateFileChosen
	StateEncoding
	StateSent
	StateAttached
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFileChosen:
		return "file_chosen"
	case StateEncoding:
		return "encoding"
	case StateSent:
		return "sent"
	case StateAttached:
		return "attached"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsFinished reports whether the flow has ended
func (s State) IsFinished() bool {
	return s == StateAttached || s == StateFailed
}

// Sender delivers an upload request to the endpoint
type Sender interface {
	Send(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error)
}

// FileAttacher records the uploaded content on a mod
type FileAttacher interface {
	AttachFile(id int, b64 string) (models.Mod, error)
}

// Options configures an Attacher
type Options struct {
	AdminModID   int           // the only mod the attach path is open for
	MaxFileBytes int64         // 0 = unlimited
	Timeout      time.Duration // per request, 0 = none
}

// Attacher runs the admin attach flow:
// Idle -> FileChosen -> Encoding -> Sent -> Attached | Failed.
// At most one flow runs per mod at a time.
type Attacher struct {
	sender Sender
	store  FileAttacher
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	inflight map[int]struct{}
	onState  func(modID int, s State)
}

// NewAttacher creates an Attacher
func NewAttacher(sender Sender, store FileAttacher, opts Options, logger *zap.Logger) *Attacher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Attacher{
		sender:   sender,
		store:    store,
		opts:     opts,
		logger:   logger,
		inflight: make(map[int]struct{}),
	}
}

// SetStateCallback sets a function called on every state transition
func (a *Attacher) SetStateCallback(fn func(modID int, s State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onState = fn
}

// CanAttach reports whether the attach path is open for modID
func (a *Attacher) CanAttach(modID int) bool {
	return modID == a.opts.AdminModID
}

// InFlight reports whether an attach for modID is pending
func (a *Attacher) InFlight(modID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inflight[modID]
	return ok
}

// Attach reads r fully, uploads it as fileName and attaches the returned
// content to modID.
func (a *Attacher) Attach(ctx context.Context, modID int, fileName string, r io.Reader) (models.Mod, error) {
	if !a.CanAttach(modID) {
		return models.Mod{}, ErrNotPermitted
	}
	if !a.acquire(modID) {
		return models.Mod{}, ErrAttachInProgress
	}
	defer a.release(modID)

	log := a.logger.With(zap.Int("mod_id", modID), zap.String("file", fileName))
	fail := func(err error) (models.Mod, error) {
		a.transition(modID, StateFailed)
		log.Warn("Attach failed", zap.Error(err))
		return models.Mod{}, err
	}

	a.transition(modID, StateFileChosen)
	data, err := a.readFile(r)
	if err != nil {
		return fail(err)
	}

	a.transition(modID, StateEncoding)
	req := models.UploadRequest{
		FileName:    fileName,
		FileContent: base64.StdEncoding.EncodeToString(data),
		ModID:       strconv.Itoa(modID),
	}

	a.transition(modID, StateSent)
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}
	resp, err := a.sender.Send(ctx, req)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrUploadFailed, err))
	}
	if !resp.Uploaded {
		return fail(fmt.Errorf("%w: endpoint rejected the file", ErrUploadFailed))
	}
	if resp.FileContent == "" {
		return fail(fmt.Errorf("%w: endpoint returned no content", ErrUploadFailed))
	}
	if _, err := base64.StdEncoding.DecodeString(resp.FileContent); err != nil {
		return fail(fmt.Errorf("%w: endpoint returned invalid base64: %w", ErrUploadFailed, err))
	}

	mod, err := a.store.AttachFile(modID, resp.FileContent)
	if err != nil {
		return fail(err)
	}

	a.transition(modID, StateAttached)
	log.Info("File attached", zap.Int("bytes", len(data)), zap.String("file_id", resp.FileID))
	return mod, nil
}

func (a *Attacher) readFile(r io.Reader) ([]byte, error) {
	if a.opts.MaxFileBytes > 0 {
		r = io.LimitReader(r, a.opts.MaxFileBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if a.opts.MaxFileBytes > 0 && int64(len(data)) > a.opts.MaxFileBytes {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func (a *Attacher) acquire(modID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.inflight[modID]; busy {
		return false
	}
	a.inflight[modID] = struct{}{}
	return true
}

func (a *Attacher) release(modID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.inflight, modID)
}

func (a *Attacher) transition(modID int, s State) {
	a.mu.Lock()
	fn := a.onState
	a.mu.Unlock()
	if fn != nil {
		fn(modID, s)
	}
}
