package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

const maxTimetableRetries = 3

// ErrTimetableContended is returned when concurrent writers keep invalidating an update.
var ErrTimetableContended = errors.New("timetable update contended")

// TimetableRepository keeps each device's personal timetable as one JSON list in Redis.
// Entries never expire.
type TimetableRepository struct {
	client *redis.Client
	prefix string
}

// NewTimetableRepository constructs the repository. An empty prefix falls back to "timetable".
func NewTimetableRepository(client *redis.Client, prefix string) *TimetableRepository {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "timetable"
	}
	return &TimetableRepository{client: client, prefix: prefix}
}

func (r *TimetableRepository) key(deviceID string) string {
	return r.prefix + ":" + deviceID
}

// Load returns the stored classes in insertion order. A device without a timetable gets an empty list.
func (r *TimetableRepository) Load(ctx context.Context, deviceID string) ([]models.PersonalClass, error) {
	classes, err := decodeTimetable(r.client.Get(ctx, r.key(deviceID)).Bytes())
	if err != nil {
		return nil, fmt.Errorf("load timetable: %w", err)
	}
	return classes, nil
}

// Update runs fn against the current timetable and stores its result atomically. The key is
// watched, so a concurrent write makes the transaction retry with fresh data. Errors from fn
// abort the update and are returned as is.
func (r *TimetableRepository) Update(ctx context.Context, deviceID string, fn func([]models.PersonalClass) ([]models.PersonalClass, error)) error {
	key := r.key(deviceID)
	txf := func(tx *redis.Tx) error {
		current, err := decodeTimetable(tx.Get(ctx, key).Bytes())
		if err != nil {
			return fmt.Errorf("load timetable: %w", err)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		payload, err := encodeTimetable(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTimetableRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTimetableContended
}

func decodeTimetable(raw []byte, err error) ([]models.PersonalClass, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.PersonalClass{}, nil
		}
		return nil, err
	}
	var classes []models.PersonalClass
	if err := json.Unmarshal(raw, &classes); err != nil {
		return nil, fmt.Errorf("decode timetable: %w", err)
	}
	if classes == nil {
		classes = []models.PersonalClass{}
	}
	return classes, nil
}

func encodeTimetable(classes []models.PersonalClass) ([]byte, error) {
	if classes == nil {
		classes = []models.PersonalClass{}
	}
	payload, err := json.Marshal(classes)
	if err != nil {
		return nil, fmt.Errorf("encode timetable: %w", err)
	}
	return payload, nil
}
