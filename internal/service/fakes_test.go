package service

import (
	"context"
	"sync"

	"venus/internal/domain"
	"venus/internal/models"
	"venus/pkg/geo"
	"venus/pkg/payment"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*models.User{}}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) UpdateFCMToken(userID, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.FCMToken = token
	return nil
}

// fakeProfiles mirrors the repository contract: ListCandidates filters gender, online, active and excludes the requester.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
	listErr  error
}

func newFakeProfiles(profiles ...models.Profile) *fakeProfiles {
	f := &fakeProfiles{profiles: map[string]models.Profile{}}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) Upsert(p *models.Profile) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.profiles[p.UserID]; ok {
		p.ID = existing.ID
		if p.CurrentCoordinates == nil {
			p.CurrentCoordinates = existing.CurrentCoordinates
		}
	} else if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.profiles[p.UserID] = *p
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) GetByUserID(userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok || !p.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) PhoneTaken(phone, excludeUserID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.PhoneNumber == phone && p.UserID != excludeUserID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfiles) ListCandidates(gender domain.Gender, excludeUserID string) ([]models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Profile
	for _, p := range f.profiles {
		if p.Gender == gender && p.Online && p.Active && p.UserID != excludeUserID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) UpdateLocation(userID, coordinates string, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.CurrentCoordinates = &coordinates
	p.Online = online
	f.profiles[userID] = p
	return nil
}

func (f *fakeProfiles) UpdatePreferences(userID string, prefs geo.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Preferences = datatypes.NewJSONType(prefs)
	f.profiles[userID] = p
	return nil
}

type fakePlans map[string]models.PaymentPlan

func (f fakePlans) ListActive() ([]models.PaymentPlan, error) {
	var out []models.PaymentPlan
	for _, p := range f {
		out = append(out, p)
	}
	return out, nil
}

func (f fakePlans) GetByID(id string) (*models.PaymentPlan, error) {
	p, ok := f[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

// fakePayments serialises read-modify-write with a mutex in place of the row lock.
type fakePayments struct {
	mu       sync.Mutex
	payments map[string]models.Payment
}

func newFakePayments() *fakePayments {
	return &fakePayments{payments: map[string]models.Payment{}}
}

func (f *fakePayments) Create(p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.payments[p.ID] = *p
	return nil
}

func (f *fakePayments) GetByID(id string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (f *fakePayments) ListByUserID(userID string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.UserID == userID && p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayments) UpdateByID(id string, fn func(p *models.Payment) (bool, error)) (*models.Payment, error) {
	return f.updateWhere(func(p models.Payment) bool { return p.ID == id }, fn)
}

func (f *fakePayments) UpdateByCorrelationID(checkoutRequestID string, fn func(p *models.Payment) (bool, error)) (*models.Payment, error) {
	return f.updateWhere(func(p models.Payment) bool {
		return p.CheckoutRequestID != nil && *p.CheckoutRequestID == checkoutRequestID
	}, fn)
}

func (f *fakePayments) updateWhere(match func(models.Payment) bool, fn func(p *models.Payment) (bool, error)) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, stored := range f.payments {
		if !match(stored) {
			continue
		}
		p := stored
		changed, err := fn(&p)
		if err != nil {
			return nil, err
		}
		if changed {
			f.payments[id] = p
			return &p, nil
		}
		return &stored, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type gatewayFunc func(ctx context.Context, req payment.PushRequest) (*payment.PushAck, error)

func (g gatewayFunc) SendPush(ctx context.Context, req payment.PushRequest) (*payment.PushAck, error) {
	return g(ctx, req)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (n *fakeNotifier) NotifyPaymentSucceeded(_ context.Context, p *models.Payment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, p.ID)
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}
