package archive

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"jump61/internal/game"
)

const saveTimeout = 5 * time.Second

// Recorder saves every game it observes when the game ends.
type Recorder struct {
	store *Store
	log   logrus.FieldLogger
}

var _ game.Observer = (*Recorder)(nil)

func NewRecorder(store *Store, log logrus.FieldLogger) *Recorder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Recorder{store: store, log: log}
}

func (r *Recorder) MoveMade(game.Snapshot) {}

func (r *Recorder) GameOver(res game.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := r.store.Save(ctx, res); err != nil {
		r.log.WithError(err).Error("archive game")
		return
	}
	r.log.WithField("game", res.GameID.String()).Info("game saved to archive")
}
