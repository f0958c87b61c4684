// Package gatewaytest provides an in-memory gateway.Store for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"portfolio/database"
	"portfolio/models"

	"github.com/google/uuid"
)

// Store keeps tables in memory and mimics the database package's
// semantics, including insert notifications for ListenMessages.
type Store struct {
	mu        sync.Mutex
	messages  []models.ChatMessage
	status    []models.StatusItem
	projects  map[string]models.Project
	listeners map[int]func(models.ChatMessage)
	nextID    int
	clock     time.Time

	// Failures maps an operation name (e.g. "ListProjects") to the error it
	// should return.
	Failures map[string]error
	// Inserts counts InsertMessage calls, failed or not.
	Inserts int
	listens int
}

func NewStore() *Store {
	return &Store{
		projects:  map[string]models.Project{},
		listeners: map[int]func(models.ChatMessage){},
		Failures:  map[string]error{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Fail makes op return err until cleared with Fail(op, nil).
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.Failures, op)
		return
	}
	s.Failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.Failures[op]
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) RecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("RecentMessages"); err != nil {
		return nil, err
	}
	start := 0
	if len(s.messages) > limit {
		start = len(s.messages) - limit
	}
	return append([]models.ChatMessage{}, s.messages[start:]...), nil
}

func (s *Store) InsertMessage(ctx context.Context, username, text string) (*models.ChatMessage, error) {
	s.mu.Lock()
	s.Inserts++
	if err := s.failure("InsertMessage"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	m := models.ChatMessage{ID: uuid.New(), CreatedAt: s.tick(), Username: username, Message: text}
	s.messages = append(s.messages, m)
	listeners := make([]func(models.ChatMessage), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(m)
	}
	return &m, nil
}

// Messages returns every stored message.
func (s *Store) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ChatMessage{}, s.messages...)
}

func (s *Store) ListenMessages(ctx context.Context, fn func(models.ChatMessage)) error {
	s.mu.Lock()
	s.listens++
	if err := s.failure("ListenMessages"); err != nil {
		s.mu.Unlock()
		return err
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	<-ctx.Done()

	s.mu.Lock()
	delete(s.listeners, id)
	s.mu.Unlock()
	return nil
}

// ListenCalls counts ListenMessages calls, failed or not.
func (s *Store) ListenCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listens
}

// Listeners reports how many ListenMessages calls are active.
func (s *Store) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Store) GetStatus(ctx context.Context) ([]models.StatusItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("GetStatus"); err != nil {
		return nil, err
	}
	return append([]models.StatusItem{}, s.status...), nil
}

func (s *Store) UpsertStatus(ctx context.Context, items []models.StatusItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpsertStatus"); err != nil {
		return err
	}
	s.status = append([]models.StatusItem{}, items...)
	return nil
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("ListProjects"); err != nil {
		return nil, err
	}
	rows := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		rows = append(rows, p)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (s *Store) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("CreateProject"); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Status == "" {
		p.Status = models.StatusInProgress
	}
	if existing, ok := s.projects[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = s.tick()
	}
	s.projects[p.ID] = p
	return &p, nil
}

// Project returns the stored row for id.
func (s *Store) Project(id string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	return p, ok
}

func (s *Store) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("UpdateProject"); err != nil {
		return nil, err
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("failed to update project: %w", database.ErrNotFound)
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Tags != nil {
		p.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.GithubURL != nil {
		p.GithubURL = optional(*patch.GithubURL)
	}
	if patch.LiveURL != nil {
		p.LiveURL = optional(*patch.LiveURL)
	}
	if patch.Image != nil {
		p.Image = optional(*patch.Image)
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	s.projects[id] = p
	return &p, nil
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure("DeleteProject"); err != nil {
		return err
	}
	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("failed to delete project %s: %w", id, database.ErrNotFound)
	}
	delete(s.projects, id)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Objects is an in-memory gateway.ObjectStore.
type Objects struct {
	mu      sync.Mutex
	Stored  map[string][]byte
	Err     error
	counter int
}

func NewObjects() *Objects {
	return &Objects{Stored: map[string][]byte{}}
}

func (o *Objects) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return "", o.Err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	o.counter++
	url := fmt.Sprintf("http://localhost/storage/project-images/%d-%s", o.counter, filename)
	o.Stored[url] = data
	return url, nil
}
