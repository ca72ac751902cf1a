package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/a704/dodream-backend/internal/domain/entity"
	repo "github.com/a704/dodream-backend/internal/domain/repository"
)

// memStore is an in-memory stand-in for the Postgres repositories. Transactions
// are serialized and roll back by restoring a snapshot.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	registry    map[entity.RegistryEntry]bool
	users       map[string]entity.User
	profiles    map[string]entity.TeacherProfile
	credentials map[string]entity.PasswordCredential // by email
	materials   map[int64]entity.Material
	bookmarks   map[int64]entity.Bookmark
	seq         int64

	// failOn makes the named operation return an error.
	failOn map[string]error
}

func newMemStore(entries ...entity.RegistryEntry) *memStore {
	s := &memStore{
		registry:    map[entity.RegistryEntry]bool{},
		users:       map[string]entity.User{},
		profiles:    map[string]entity.TeacherProfile{},
		credentials: map[string]entity.PasswordCredential{},
		materials:   map[int64]entity.Material{},
		bookmarks:   map[int64]entity.Bookmark{},
		failOn:      map[string]error{},
	}
	for _, e := range entries {
		s.registry[e] = true
	}
	return s
}

type snapshot struct {
	users       map[string]entity.User
	profiles    map[string]entity.TeacherProfile
	credentials map[string]entity.PasswordCredential
	materials   map[int64]entity.Material
	bookmarks   map[int64]entity.Bookmark
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{clone(s.users), clone(s.profiles), clone(s.credentials), clone(s.materials), clone(s.bookmarks)}
}

func (s *memStore) restore(sn snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.profiles, s.credentials, s.materials, s.bookmarks = sn.users, sn.profiles, sn.credentials, sn.materials, sn.bookmarks
}

func (s *memStore) fail(op string) error {
	return s.failOn[op]
}

func (s *memStore) nextID() int64 {
	s.seq++
	return s.seq
}

// Transactor

func (s *memStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	sn := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(sn)
		return err
	}
	return nil
}

// Registry

type memRegistry struct{ *memStore }

func (r memRegistry) Exists(_ context.Context, name, teacherNo string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("registry.exists"); err != nil {
		return false, err
	}
	return r.registry[entity.RegistryEntry{Name: name, TeacherNo: teacherNo}], nil
}

// Users

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("users.create"); err != nil {
		return err
	}
	u.ID = fmt.Sprintf("user-%d", r.nextID())
	u.CreatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

// Profiles

type memProfiles struct{ *memStore }

func (r memProfiles) Create(_ context.Context, p *entity.TeacherProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("profiles.create"); err != nil {
		return err
	}
	if _, ok := r.profiles[p.UserID]; ok {
		return errors.New("duplicate profile")
	}
	r.profiles[p.UserID] = *p
	return nil
}

func (r memProfiles) GetByUserID(_ context.Context, userID string) (*entity.TeacherProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

// Credentials

type memCredentials struct {
	*memStore
	// blindPrecheck makes ExistsByEmail always report false, so only the
	// unique check in Create can catch a duplicate.
	blindPrecheck bool
}

func (r memCredentials) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if r.blindPrecheck {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.credentials[email]
	return ok, nil
}

func (r memCredentials) GetByEmail(_ context.Context, email string) (*entity.PasswordCredential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.credentials[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (r memCredentials) Create(_ context.Context, c *entity.PasswordCredential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("credentials.create"); err != nil {
		return err
	}
	if _, ok := r.credentials[c.Email]; ok {
		return fmt.Errorf("insert credential: %w", repo.ErrDuplicateEmail)
	}
	r.credentials[c.Email] = *c
	return nil
}

// Materials

type memMaterials struct{ *memStore }

func (r memMaterials) Create(_ context.Context, m *entity.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("materials.create"); err != nil {
		return err
	}
	m.ID = r.nextID()
	m.CreatedAt = time.Now()
	r.materials[m.ID] = *m
	return nil
}

func (r memMaterials) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &m, nil
}

// Bookmarks

type memBookmarks struct{ *memStore }

func (r memBookmarks) Find(_ context.Context, userID string, materialID int64, titleID, stitleID string) (*entity.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookmarks {
		if b.UserID == userID && b.MaterialID == materialID && b.TitleID == titleID && b.STitleID == stitleID {
			return &b, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memBookmarks) Create(_ context.Context, b *entity.Bookmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("bookmarks.create"); err != nil {
		return err
	}
	for _, x := range r.bookmarks {
		if x.UserID == b.UserID && x.MaterialID == b.MaterialID && x.TitleID == b.TitleID && x.STitleID == b.STitleID {
			return repo.ErrDuplicateBookmark
		}
	}
	b.ID = r.nextID()
	b.CreatedAt = time.Now()
	r.bookmarks[b.ID] = *b
	return nil
}

func (r memBookmarks) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookmarks[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.bookmarks, id)
	return nil
}

func (r memBookmarks) ListByUser(_ context.Context, userID string) ([]entity.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Bookmark{}
	for _, b := range r.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// counts returns users, profiles, credentials.
func (s *memStore) counts() (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), len(s.profiles), len(s.credentials)
}

var (
	_ repo.Transactor               = (*memStore)(nil)
	_ repo.RegistryRepository       = memRegistry{}
	_ repo.UserRepository           = memUsers{}
	_ repo.TeacherProfileRepository = memProfiles{}
	_ repo.CredentialRepository     = memCredentials{}
	_ repo.MaterialRepository       = memMaterials{}
	_ repo.BookmarkRepository       = memBookmarks{}
)
