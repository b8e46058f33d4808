package collab

import (
	"context"
	"iter"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/devcollab/devcollab/internal/app/integrations/gemini"
	"github.com/devcollab/devcollab/internal/app/integrations/github"
	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/devcollab/devcollab/internal/app/system/metrics"
	"github.com/devcollab/devcollab/internal/app/system/notify"
	"github.com/devcollab/devcollab/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]models.Profile
}

func newMemProfiles() *memProfiles { return &memProfiles{byID: map[string]models.Profile{}} }

func (m *memProfiles) GetOrCreate(_ context.Context, p models.Profile) (models.Profile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.byID[p.ID]; ok {
		return existing, false, nil
	}
	p.CreatedAt = time.Now().UTC()
	m.byID[p.ID] = p
	return p, true, nil
}

func (m *memProfiles) GetByID(_ context.Context, uid string) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[uid]
	if !ok {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	return p, nil
}

func (m *memProfiles) set(uid string, fn func(*models.Profile)) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[uid]
	if !ok {
		return models.Profile{}, apperr.NotFound("Profile not found")
	}
	fn(&p)
	now := time.Now().UTC()
	p.UpdatedAt = &now
	m.byID[uid] = p
	return p, nil
}

func (m *memProfiles) SetRole(_ context.Context, uid, role string) (models.Profile, error) {
	return m.set(uid, func(p *models.Profile) { p.Role = role })
}

func (m *memProfiles) SetDisplayName(_ context.Context, uid, name string) (models.Profile, error) {
	return m.set(uid, func(p *models.Profile) { p.DisplayName = name })
}

// memProjects mirrors the Mongo store's semantics, including the atomic
// membership check on AddCollaborator.
type memProjects struct {
	mu     sync.Mutex
	byID   map[string]models.Project
	writes int
	clock  time.Time
}

func newMemProjects() *memProjects {
	return &memProjects{byID: map[string]models.Project{}, clock: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func clone(p models.Project) models.Project {
	p.Collaborators = slices.Clone(p.Collaborators)
	p.Tags = slices.Clone(p.Tags)
	return p
}

func (m *memProjects) Create(_ context.Context, p models.Project) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Second)
	p.ID = primitive.NewObjectID()
	p.CreatedAt = m.clock
	m.byID[p.ID.Hex()] = clone(p)
	m.writes++
	return clone(p), nil
}

func (m *memProjects) GetByID(_ context.Context, id string) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return models.Project{}, apperr.NotFound("Project not found")
	}
	return clone(p), nil
}

func (m *memProjects) ListByOwner(_ context.Context, ownerID string) iter.Seq2[models.Project, error] {
	return func(yield func(models.Project, error) bool) {
		m.mu.Lock()
		var out []models.Project
		for _, p := range m.byID {
			if p.OwnerID == ownerID {
				out = append(out, clone(p))
			}
		}
		m.mu.Unlock()
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		for _, p := range out {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func (m *memProjects) update(id string, fn func(*models.Project) error) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return models.Project{}, apperr.NotFound("Project not found")
	}
	if err := fn(&p); err != nil {
		return models.Project{}, err
	}
	now := m.clock
	p.UpdatedAt = &now
	m.byID[id] = p
	m.writes++
	return clone(p), nil
}

func (m *memProjects) AddCollaborator(_ context.Context, id, email string) (models.Project, error) {
	return m.update(id, func(p *models.Project) error {
		if p.HasCollaborator(email) {
			return apperr.Conflict("Collaborator already exists")
		}
		p.Collaborators = append(p.Collaborators, email)
		return nil
	})
}

func (m *memProjects) SetRepository(_ context.Context, id, repoURL, repoID string) (models.Project, error) {
	return m.update(id, func(p *models.Project) error {
		p.GitHubRepo, p.GitHubRepoID = repoURL, repoID
		return nil
	})
}

func (m *memProjects) SetReadme(_ context.Context, id, readme string) (models.Project, error) {
	return m.update(id, func(p *models.Project) error {
		p.Readme = readme
		return nil
	})
}

func (m *memProjects) FindByRepository(_ context.Context, repoURL string) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found *models.Project
	for _, p := range m.byID {
		if p.GitHubRepo != repoURL {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) {
			cp := clone(p)
			found = &cp
		}
	}
	if found == nil {
		return models.Project{}, apperr.NotFound("Project not found")
	}
	return *found, nil
}

func (m *memProjects) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type fakeRepos struct {
	calls []github.RepoRequest
	next  int64
	err   error
}

func (f *fakeRepos) CreateRepository(_ context.Context, req github.RepoRequest) (github.Repo, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return github.Repo{}, f.err
	}
	f.next++
	return github.Repo{
		ID:      1000 + f.next,
		Name:    req.Name,
		HTMLURL: "https://github.com/jane/" + req.Name,
		Private: req.Private,
	}, nil
}

type fakeReadmes struct {
	calls   []gemini.ReadmeRequest
	outputs []string
	err     error
}

func (f *fakeReadmes) GenerateReadme(_ context.Context, req gemini.ReadmeRequest) (string, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return "", f.err
	}
	out := f.outputs[0]
	if len(f.outputs) > 1 {
		f.outputs = f.outputs[1:]
	}
	return out, nil
}

type fakeNotifier struct {
	updates []notify.Update
	err     error
}

func (f *fakeNotifier) SendUpdate(_ context.Context, u notify.Update) (string, error) {
	f.updates = append(f.updates, u)
	if f.err != nil {
		return "", f.err
	}
	return "summary", nil
}

type testEnv struct {
	svc      *Service
	profiles *memProfiles
	projects *memProjects
	repos    *fakeRepos
	readmes  *fakeReadmes
}

func newTestEnv() *testEnv {
	env := &testEnv{
		profiles: newMemProfiles(),
		projects: newMemProjects(),
		repos:    &fakeRepos{},
		readmes:  &fakeReadmes{outputs: []string{"# README"}},
	}
	env.svc = &Service{
		Profiles: env.profiles,
		Projects: env.projects,
		Repos:    env.repos,
		Readmes:  env.readmes,
		Metrics:  metrics.Nop{},
		Log:      zap.NewNop(),
	}
	return env
}

var (
	owner    = Actor{UID: "google:1", Email: "jane@x.com"}
	stranger = Actor{UID: "github:2", Email: "sam@y.com"}
)
