package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"multiverse/browser/internal/domain/task"
	"multiverse/browser/internal/repository"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// TaskSource is the consumer side of the persistence queue.
type TaskSource interface {
	GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error)
	AckTask(ctx context.Context, stream, group, msgID string) error
	AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error)
	StreamName(taskType string) string
	GroupName() string
}

// PersistWorker drains the persistence streams into the Marvel repository.
// A message is acked only after it was stored; repository failures stay
// pending and are picked up again by the auto-claimer once idle for
// minIdleTime. Malformed messages are acked and dropped.
type PersistWorker struct {
	queue       TaskSource
	repository  repository.MarvelRepository
	minIdleTime time.Duration
}

func NewPersistWorker(queue TaskSource, repository repository.MarvelRepository, minIdleTime int) *PersistWorker {
	idle := time.Duration(minIdleTime) * time.Second
	if idle <= 0 {
		idle = 2 * time.Minute
	}
	return &PersistWorker{
		queue:       queue,
		repository:  repository,
		minIdleTime: idle,
	}
}

// Run blocks until ctx is cancelled.
func (w *PersistWorker) Run(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	for _, taskType := range task.Types {
		w.runWorkersForStream(ctx, &wg, max(1, numWorkers), w.queue.StreamName(taskType), taskType)
	}

	wg.Wait()
	return nil
}

func (w *PersistWorker) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, taskType string) {
	group := w.queue.GroupName()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(w.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", taskType, time.Now().UnixNano())
				claimed, err := w.queue.AutoClaim(ctx, group, consumer, streamName, w.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimed) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s", len(claimed), streamName)
				}
				for _, msg := range claimed {
					if err := w.processMessage(ctx, streamName, &msg); err != nil {
						log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
					}
				}
			}
		}
	}()

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", taskType, workerID)
			log.Infof("🚀 Starting %s worker %d as consumer %s", taskType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("🛑 %s worker %d stopping", taskType, workerID)
					return
				default:
					msg, err := w.queue.GetTask(ctx, group, consumer, streamName)
					if err != nil {
						if ctx.Err() == nil {
							log.Errorf("❌ Failed to get task from %s: %v", streamName, err)
							sleep(ctx, time.Second)
						}
						continue
					}
					if msg != nil {
						if err := w.processMessage(ctx, streamName, msg); err != nil {
							log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

// errMalformed marks messages that can never be stored; they are acked and
// dropped instead of being reclaimed forever.
var errMalformed = errors.New("malformed task message")

func (w *PersistWorker) processMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	if err := w.store(ctx, msg); err != nil {
		if !errors.Is(err, errMalformed) {
			return err
		}
		log.Warnf("🗑️ Dropping message %s from %s: %v", msg.ID, streamName, err)
	}

	if err := w.queue.AckTask(ctx, streamName, w.queue.GroupName(), msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (w *PersistWorker) store(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("%w: invalid task type in message %s", errMalformed, msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("%w: invalid task data in message %s", errMalformed, msg.ID)
	}

	switch taskType {
	case task.TypePersistCharacters:
		t, err := task.UnmarshalTask[*task.PersistCharactersTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("%w: failed to unmarshal characters task: %v", errMalformed, err)
		}
		if err := w.repository.UpsertCharacters(ctx, t.Characters); err != nil {
			return fmt.Errorf("failed to persist characters: %w", err)
		}
		log.Debugf("💾 Stored %d characters from %s", len(t.Characters), t.Source)

	case task.TypePersistComics:
		t, err := task.UnmarshalTask[*task.PersistComicsTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("%w: failed to unmarshal comics task: %v", errMalformed, err)
		}
		if err := w.repository.UpsertComics(ctx, t.Comics); err != nil {
			return fmt.Errorf("failed to persist comics: %w", err)
		}
		log.Debugf("💾 Stored %d comics from %s", len(t.Comics), t.Source)

	default:
		return fmt.Errorf("%w: unknown task type %q", errMalformed, taskType)
	}

	return nil
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
