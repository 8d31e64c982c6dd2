package request_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/core/events"
	"github.com/familyone/factory-ops/internal/request"
)

func TestRequestService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Request Service Suite")
}

// MockRepository implements request.Repository for testing
type MockRepository struct {
	items map[string]*request.Item
}

func NewMockRepository() *MockRepository {
	return &MockRepository{items: make(map[string]*request.Item)}
}

func (m *MockRepository) Create(ctx context.Context, item *request.Item) error {
	m.items[item.ID] = item
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*request.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, request.ErrRequestNotFound
	}
	return item, nil
}

func (m *MockRepository) List(ctx context.Context, filter request.ScopeFilter) ([]*request.Item, error) {
	var result []*request.Item
	for _, item := range m.items {
		if filter.Site != "" && item.Site != filter.Site {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (m *MockRepository) SetState(ctx context.Context, id string, state request.State, reviewerID string, reviewedAt time.Time) error {
	item := m.items[id]
	item.State = state
	item.ReviewerID = &reviewerID
	item.ReviewedAt = &reviewedAt
	return nil
}

type MockPublisher struct {
	published []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func claimsFor(userID, role, site string) *auth.Claims {
	return &auth.Claims{
		Role:             auth.Role(role),
		Site:             site,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}
}

var _ = Describe("Request Service", func() {
	var (
		mockRepo *MockRepository
		bus      *MockPublisher
		service  *request.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		bus = &MockPublisher{}
		service = request.NewService(mockRepo, bus)
		ctx = context.Background()
	})

	createItem := func() *request.Item {
		item, err := service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), request.CreateRequestDTO{
			Kind:    "mold_change",
			Details: "swap mold on press 3",
		})
		Expect(err).NotTo(HaveOccurred())
		return item
	}

	Describe("Create", func() {
		It("should stamp the creator's scope and start pending", func() {
			item := createItem()
			Expect(item.State).To(Equal(request.StatePending))
			Expect(item.CreatedBy).To(Equal("worker-1"))
			Expect(item.Site).To(Equal("jeonju"))
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.RequestNew))
		})

		It("should reject an unknown kind", func() {
			_, err := service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), request.CreateRequestDTO{
				Kind:    "vacation",
				Details: "nope",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Approve", func() {
		It("should record the reviewer and decision time", func() {
			item := createItem()
			bus.published = nil

			decided, err := service.Approve(ctx, claimsFor("mgr-1", "manager", "jeonju"), item.ID, request.DecideDTO{ReviewerID: "mgr-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.State).To(Equal(request.StateApproved))
			Expect(*decided.ReviewerID).To(Equal("mgr-1"))
			Expect(decided.ReviewedAt).NotTo(BeNil())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.RequestApproved))
		})

		It("should refuse a second decision", func() {
			item := createItem()
			_, err := service.Approve(ctx, claimsFor("mgr-1", "manager", "jeonju"), item.ID, request.DecideDTO{ReviewerID: "mgr-1"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Approve(ctx, claimsFor("mgr-2", "manager", "jeonju"), item.ID, request.DecideDTO{ReviewerID: "mgr-2"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(409))
		})

		It("should refuse cross-site decisions", func() {
			item := createItem()
			_, err := service.Approve(ctx, claimsFor("mgr-2", "manager", "busan"), item.ID, request.DecideDTO{ReviewerID: "mgr-2"})
			Expect(err).To(MatchError(apperrors.ErrCrossSite))
		})

		It("should 404 on an unknown request", func() {
			_, err := service.Approve(ctx, claimsFor("mgr-1", "manager", "jeonju"), "missing", request.DecideDTO{ReviewerID: "mgr-1"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("Reject", func() {
		It("should refuse rejecting after approval", func() {
			item := createItem()
			_, err := service.Approve(ctx, claimsFor("mgr-1", "manager", "jeonju"), item.ID, request.DecideDTO{ReviewerID: "mgr-1"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Reject(ctx, claimsFor("mgr-1", "manager", "jeonju"), item.ID, request.DecideDTO{ReviewerID: "mgr-1"})
			Expect(err).To(HaveOccurred())
		})

		It("should publish the rejected event", func() {
			item := createItem()
			bus.published = nil

			_, err := service.Reject(ctx, claimsFor("mgr-1", "manager", "jeonju"), item.ID, request.DecideDTO{ReviewerID: "mgr-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.RequestRejected))
		})
	})
})
