package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"art_academy_writer/cache"
	"art_academy_writer/generator"
)

const draftKeyPrefix = "report-draft:"

// Draft is a generated report kept for manual editing and export.
type Draft struct {
	ID          string                  `json:"id"`
	StudentName string                  `json:"studentName"`
	StudentAge  string                  `json:"studentAge"`
	ClassName   string                  `json:"className"`
	Content     generator.ReportContent `json:"content"`
	Edited      bool                    `json:"edited"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// draftEdit carries the sections a teacher changed; nil means unchanged.
type draftEdit struct {
	Form       *string `json:"content_form"`
	Color      *string `json:"content_color"`
	Expression *string `json:"content_expression"`
	Strength   *string `json:"content_strength"`
	Attitude   *string `json:"content_attitude"`
	Direction  *string `json:"content_direction"`
}

func (e draftEdit) empty() bool {
	return e.Form == nil && e.Color == nil && e.Expression == nil &&
		e.Strength == nil && e.Attitude == nil && e.Direction == nil
}

func (e draftEdit) apply(c *generator.ReportContent) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Form, e.Form)
	set(&c.Color, e.Color)
	set(&c.Expression, e.Expression)
	set(&c.Strength, e.Strength)
	set(&c.Attitude, e.Attitude)
	set(&c.Direction, e.Direction)
}

type draftStore struct {
	mu    sync.Mutex // serializes read-modify-write in update
	cache *cache.Cache[Draft]
	clock cache.Clock
}

func newDraftStore(c *cache.Cache[Draft], clock cache.Clock) *draftStore {
	return &draftStore{cache: c, clock: clock}
}

func (s *draftStore) create(req generator.ReportRequest, content generator.ReportContent) Draft {
	now := s.clock.Now().UTC()
	d := Draft{
		ID:          uuid.NewString(),
		StudentName: req.StudentName,
		StudentAge:  string(req.StudentAge),
		ClassName:   req.ClassName,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.cache.Set(draftKeyPrefix+d.ID, d)
	return d
}

func (s *draftStore) get(id string) (Draft, bool) {
	return s.cache.Get(draftKeyPrefix + id)
}

// update applies edit and restarts the draft's lifetime.
func (s *draftStore) update(id string, edit draftEdit) (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.cache.Get(draftKeyPrefix + id)
	if !ok {
		return Draft{}, false
	}
	if !edit.empty() {
		edit.apply(&d.Content)
		d.Edited = true
		d.UpdatedAt = s.clock.Now().UTC()
	}
	s.cache.Set(draftKeyPrefix+id, d)
	return d, true
}

func (s *draftStore) purge() int {
	return s.cache.Purge()
}
