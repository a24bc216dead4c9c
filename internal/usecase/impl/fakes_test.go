package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"esanspool/internal/domain/entity"
	"esanspool/internal/domain/repository"
	"esanspool/internal/domain/service"
)

// The tests run the services against in-memory repositories so the whole
// transaction path is exercised without a Firestore emulator.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- essence repository ---

type memEssenceRepo struct {
	mu    sync.Mutex
	items []*entity.Essence
}

func (r *memEssenceRepo) FindByID(_ context.Context, id string) (*entity.Essence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			clone := *e
			return &clone, nil
		}
	}

	return nil, repository.ErrEssenceNotFound
}

func (r *memEssenceRepo) FindByCode(_ context.Context, code string) (*entity.Essence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.Code == code {
			clone := *e
			return &clone, nil
		}
	}

	return nil, repository.ErrEssenceNotFound
}

func (r *memEssenceRepo) List(_ context.Context) ([]*entity.Essence, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Essence, 0, len(r.items))
	for _, e := range r.items {
		clone := *e
		out = append(out, &clone)
	}

	return out, nil
}

func (r *memEssenceRepo) Create(_ context.Context, essence *entity.Essence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if essence.ID == "" {
		essence.ID = "essence-" + string(rune('a'+len(r.items)))
	}
	if essence.TargetAmount <= 0 {
		essence.TargetAmount = entity.DefaultTargetAmount
	}
	clone := *essence
	r.items = append(r.items, &clone)

	return nil
}

func (r *memEssenceRepo) Update(_ context.Context, essence *entity.Essence) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.ID == essence.ID {
			clone := *essence
			r.items[i] = &clone
			return nil
		}
	}

	return repository.ErrEssenceNotFound
}

func (r *memEssenceRepo) AddTotalDemand(_ context.Context, id string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			e.TotalDemand += delta
			return nil
		}
	}

	return repository.ErrEssenceNotFound
}

func (r *memEssenceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}

	return repository.ErrEssenceNotFound
}

func (r *memEssenceRepo) Watch(ctx context.Context) (<-chan []*entity.Essence, error) {
	snapshot, _ := r.List(ctx)
	ch := make(chan []*entity.Essence, 1)
	ch <- snapshot
	close(ch)

	return ch, nil
}

// --- demand repository ---

type memDemandRepo struct {
	mu    sync.Mutex
	items []*entity.Demand
	seq   int
}

func (r *memDemandRepo) FindByID(_ context.Context, id string) (*entity.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.ID == id {
			clone := *d
			return &clone, nil
		}
	}

	return nil, repository.ErrDemandNotFound
}

func (r *memDemandRepo) List(_ context.Context) ([]*entity.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cloneAll(func(*entity.Demand) bool { return true }), nil
}

func (r *memDemandRepo) FindByUserID(_ context.Context, userID string) ([]*entity.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cloneAll(func(d *entity.Demand) bool { return d.UserID == userID }), nil
}

func (r *memDemandRepo) FindByEssenceID(_ context.Context, essenceID string) ([]*entity.Demand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cloneAll(func(d *entity.Demand) bool { return d.EssenceID == essenceID }), nil
}

func (r *memDemandRepo) cloneAll(keep func(*entity.Demand) bool) []*entity.Demand {
	out := make([]*entity.Demand, 0, len(r.items))
	for _, d := range r.items {
		if keep(d) {
			clone := *d
			out = append(out, &clone)
		}
	}

	return out
}

func (r *memDemandRepo) Create(_ context.Context, demand *entity.Demand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if demand.ID == "" {
		demand.ID = "demand-" + string(rune('0'+r.seq))
	}
	clone := *demand
	r.items = append(r.items, &clone)

	return nil
}

func (r *memDemandRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.items {
		if d.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}

	return repository.ErrDemandNotFound
}

func (r *memDemandRepo) Watch(ctx context.Context) (<-chan []*entity.Demand, error) {
	snapshot, _ := r.List(ctx)
	ch := make(chan []*entity.Demand, 1)
	ch <- snapshot
	close(ch)

	return ch, nil
}

// --- user repository ---

type memUserRepo struct {
	mu    sync.Mutex
	items []*entity.User
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.items))
	for _, u := range r.items {
		clone := *u
		out = append(out, &clone)
	}

	return out, nil
}

func (r *memUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = "user-" + string(rune('a'+len(r.items)))
	}
	clone := *user
	r.items = append(r.items, &clone)

	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.items {
		if u.ID == user.ID {
			clone := *user
			r.items[i] = &clone
			return nil
		}
	}

	return repository.ErrUserNotFound
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.items {
		if u.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}

	return repository.ErrUserNotFound
}

// --- transaction manager ---

type memFactory struct {
	essences *memEssenceRepo
	demands  *memDemandRepo
	users    *memUserRepo
}

func (f *memFactory) EssenceRepo() repository.EssenceRepository { return f.essences }
func (f *memFactory) DemandRepo() repository.DemandRepository   { return f.demands }
func (f *memFactory) UserRepo() repository.UserRepository       { return f.users }

// memTxManager runs the callback directly against the shared repositories.
type memTxManager struct {
	factory *memFactory
}

func (tm *memTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}

// --- event publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []*service.EssenceConfirmedEvent
}

func (p *recordingPublisher) PublishEssenceConfirmed(_ context.Context, event *service.EssenceConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error { return nil }

// --- password hasher ---

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return hash == "hashed:"+password }

// --- qr code service ---

type fakeQRCodeService struct{}

func (fakeQRCodeService) GenerateEssenceQR(string) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

// testWorld bundles everything a service test needs.
type testWorld struct {
	essences  *memEssenceRepo
	demands   *memDemandRepo
	users     *memUserRepo
	txManager *memTxManager
	publisher *recordingPublisher
}

func newTestWorld() *testWorld {
	essences := &memEssenceRepo{}
	demands := &memDemandRepo{}
	users := &memUserRepo{}

	return &testWorld{
		essences:  essences,
		demands:   demands,
		users:     users,
		txManager: &memTxManager{factory: &memFactory{essences: essences, demands: demands, users: users}},
		publisher: &recordingPublisher{},
	}
}
