package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/offer-service/internal/domain"
)

// InMemoryStore is a mutex-guarded store used when no Postgres DSN is configured
// and as the backing store in tests. It is the source of truth for its process,
// not a cache in front of another store. All reads return copies.
type InMemoryStore struct {
	mu     sync.Mutex
	seq    int64
	users  map[string]*memRecord[domain.User]
	offers map[string]*memRecord[domain.Offer]
	leads  map[string]*memRecord[domain.Lead]
	audit  []domain.AuditLogEntry
	resets map[string]domain.PasswordResetToken
	now    func() time.Time
}

type memRecord[T any] struct {
	seq   int64
	value T
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:  make(map[string]*memRecord[domain.User]),
		offers: make(map[string]*memRecord[domain.Offer]),
		leads:  make(map[string]*memRecord[domain.Lead]),
		resets: make(map[string]domain.PasswordResetToken),
		now:    time.Now,
	}
}

func (s *InMemoryStore) Users() UserRepository         { return memUsers{s} }
func (s *InMemoryStore) Offers() OfferRepository       { return memOffers{s} }
func (s *InMemoryStore) Leads() LeadRepository         { return memLeads{s} }
func (s *InMemoryStore) AuditLogs() AuditLogRepository { return memAudit{s} }

// PasswordResets returns the reset token store.
func (s *InMemoryStore) PasswordResets() PasswordResetRepository { return memResets{s} }

// AuditEntries returns a snapshot of appended audit entries in insertion order.
func (s *InMemoryStore) AuditEntries() []domain.AuditLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditLogEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *InMemoryStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

// newestFirst orders records by descending insertion sequence and applies the limit.
func newestFirst[T any](records []*memRecord[T], limit int) []T {
	sort.Slice(records, func(i, j int) bool { return records[i].seq > records[j].seq })
	limit = clampLimit(limit)
	if len(records) > limit {
		records = records[:limit]
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.value)
	}
	return out
}

type memUsers struct{ s *InMemoryStore }

func (r memUsers) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.users[user.ID]; exists {
		return ErrDuplicate
	}
	for _, rec := range r.s.users {
		if strings.EqualFold(rec.value.Email, user.Email) {
			return ErrDuplicate
		}
	}
	now := r.s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = &memRecord[domain.User]{seq: r.s.nextSeq(), value: *user}
	return nil
}

func (r memUsers) UpdateProfile(_ context.Context, id, displayName string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	rec.value.DisplayName = displayName
	rec.value.UpdatedAt = r.s.now()
	user := rec.value
	return &user, nil
}

func (r memUsers) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, "", ErrNotFound
	}
	previous := rec.value.Role
	if previous != role {
		rec.value.Role = role
		rec.value.UpdatedAt = r.s.now()
	}
	user := rec.value
	return &user, previous, nil
}

func (r memUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[id]
	if !ok {
		return ErrNotFound
	}
	rec.value.PasswordHash = passwordHash
	rec.value.UpdatedAt = r.s.now()
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := rec.value
	return &user, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rec := range r.s.users {
		if strings.EqualFold(rec.value.Email, email) {
			user := rec.value
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r memUsers) List(_ context.Context, limit int) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := make([]*memRecord[domain.User], 0, len(r.s.users))
	for _, rec := range r.s.users {
		records = append(records, rec)
	}
	return newestFirst(records, limit), nil
}

type memOffers struct{ s *InMemoryStore }

func (r memOffers) Create(_ context.Context, offer *domain.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[offer.UserID]; !ok {
		return ErrNotFound
	}
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	now := r.s.now()
	offer.CreatedAt, offer.UpdatedAt = now, now
	r.s.offers[offer.ID] = &memRecord[domain.Offer]{seq: r.s.nextSeq(), value: *offer}
	return nil
}

func (r memOffers) GetByID(_ context.Context, id string) (*domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	offer := rec.value
	return &offer, nil
}

func (r memOffers) ListByUser(_ context.Context, userID string, limit int) ([]domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var records []*memRecord[domain.Offer]
	for _, rec := range r.s.offers {
		if rec.value.UserID == userID {
			records = append(records, rec)
		}
	}
	return newestFirst(records, limit), nil
}

func (r memOffers) List(_ context.Context, limit int) ([]domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := make([]*memRecord[domain.Offer], 0, len(r.s.offers))
	for _, rec := range r.s.offers {
		records = append(records, rec)
	}
	return newestFirst(records, limit), nil
}

func (r memOffers) TransitionStatus(_ context.Context, id string, from, to domain.OfferStatus) (*domain.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.offers[id]
	if !ok {
		return nil, ErrNotFound
	}
	if rec.value.Status != from {
		return nil, ErrStatusConflict
	}
	rec.value.Status = to
	rec.value.UpdatedAt = r.s.now()
	offer := rec.value
	return &offer, nil
}

type memLeads struct{ s *InMemoryStore }

func (r memLeads) Create(_ context.Context, lead *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	now := r.s.now()
	lead.CreatedAt, lead.UpdatedAt = now, now
	r.s.leads[lead.ID] = &memRecord[domain.Lead]{seq: r.s.nextSeq(), value: *lead}
	return nil
}

func (r memLeads) Update(_ context.Context, lead *domain.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.leads[lead.ID]
	if !ok {
		return ErrNotFound
	}
	lead.CreatedAt = rec.value.CreatedAt
	lead.UpdatedAt = r.s.now()
	rec.value = *lead
	return nil
}

func (r memLeads) GetByID(_ context.Context, id string) (*domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	lead := rec.value
	return &lead, nil
}

func (r memLeads) List(_ context.Context, limit int) ([]domain.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	records := make([]*memRecord[domain.Lead], 0, len(r.s.leads))
	for _, rec := range r.s.leads {
		records = append(records, rec)
	}
	return newestFirst(records, limit), nil
}

func (r memLeads) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.leads, id)
	return nil
}

type memAudit struct{ s *InMemoryStore }

func (r memAudit) Append(_ context.Context, entry *domain.AuditLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.CreatedAt = r.s.now()
	r.s.audit = append(r.s.audit, *entry)
	return nil
}

type memResets struct{ s *InMemoryStore }

func (r memResets) Create(_ context.Context, token *domain.PasswordResetToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[token.UserID]; !ok {
		return ErrNotFound
	}
	if _, exists := r.s.resets[token.TokenHash]; exists {
		return ErrDuplicate
	}
	token.CreatedAt = r.s.now()
	r.s.resets[token.TokenHash] = *token
	return nil
}

func (r memResets) Consume(_ context.Context, tokenHash string, now time.Time) (*domain.PasswordResetToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	token, ok := r.s.resets[tokenHash]
	if !ok || !token.Usable(now) {
		return nil, ErrNotFound
	}
	usedAt := now
	token.UsedAt = &usedAt
	r.s.resets[tokenHash] = token
	return &token, nil
}
