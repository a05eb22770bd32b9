package services_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v80"

	"github.com/AlexObbs/shopp/models"
)

// --- Mock PaymentProvider ---

type mockProvider struct {
	createCalls int
	lastParams  *stripe.CheckoutSessionParams

	createFn func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getFn    func(id string) (*stripe.CheckoutSession, error)
	eventFn  func(payload []byte, sigHeader string) (stripe.Event, error)
}

func (m *mockProvider) CreateCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	m.createCalls++
	m.lastParams = params
	if m.createFn != nil {
		return m.createFn(params)
	}
	return &stripe.CheckoutSession{ID: "cs_test_1"}, nil
}

func (m *mockProvider) GetCheckoutSession(_ context.Context, id string) (*stripe.CheckoutSession, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, fmt.Errorf("no session configured")
}

func (m *mockProvider) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	if m.eventFn != nil {
		return m.eventFn(payload, sigHeader)
	}
	return stripe.Event{}, fmt.Errorf("no event configured")
}

// --- Mock TipRepository ---

type mockTipRepo struct {
	records    map[string]*models.TipRecord
	claimCalls int
	failClaims bool
}

func newMockTipRepo() *mockTipRepo {
	return &mockTipRepo{records: make(map[string]*models.TipRecord)}
}

func (m *mockTipRepo) Claim(_ context.Context, rec *models.TipRecord) (bool, *models.TipRecord, error) {
	m.claimCalls++
	if m.failClaims {
		return false, nil, fmt.Errorf("store unavailable")
	}
	if existing, ok := m.records[rec.PaymentIntentID]; ok {
		return false, existing, nil
	}
	stored := *rec
	m.records[rec.PaymentIntentID] = &stored
	return true, &stored, nil
}

func (m *mockTipRepo) FindByPaymentIntentID(_ context.Context, paymentIntentID string) (*models.TipRecord, error) {
	return m.records[paymentIntentID], nil
}

func (m *mockTipRepo) EnsureIndexes(_ context.Context) error { return nil }

// --- Mock GuideRepository ---

type mockGuideRepo struct {
	guides  []*models.Guide
	findErr error
}

func (m *mockGuideRepo) FindByID(_ context.Context, id string) (*models.Guide, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, g := range m.guides {
		if g.ID == id {
			copied := *g
			copied.Exists = true
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockGuideRepo) FindByExactName(_ context.Context, name string) (*models.Guide, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, field := range []func(*models.Guide) string{
		func(g *models.Guide) string { return g.Name },
		func(g *models.Guide) string { return g.FullName },
		func(g *models.Guide) string { return g.DisplayName },
	} {
		for _, g := range m.guides {
			if field(g) == name {
				copied := *g
				copied.Exists = true
				return &copied, nil
			}
		}
	}
	return nil, nil
}

func (m *mockGuideRepo) ScanByNameFold(_ context.Context, name string, limit int64) (*models.Guide, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	count := int64(0)
	for _, g := range m.guides {
		if count >= limit {
			break
		}
		count++
		for _, candidate := range []string{g.Name, g.FullName, g.DisplayName} {
			if candidate != "" && strings.EqualFold(candidate, name) {
				copied := *g
				copied.Exists = true
				return &copied, nil
			}
		}
	}
	return nil, nil
}

// --- Mock TipNotifier ---

type mockNotifier struct {
	calls      int
	lastRecord *models.TipRecord
	lastEmail  string
}

func (m *mockNotifier) NotifyTipReceived(_ context.Context, rec *models.TipRecord, recipientEmail string) {
	m.calls++
	m.lastRecord = rec
	m.lastEmail = recipientEmail
}

// --- Mock PaymentEventPublisher ---

type mockPublisher struct {
	events []models.PaymentEvent
}

func (m *mockPublisher) PublishPaymentEvent(_ context.Context, event models.PaymentEvent) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }
