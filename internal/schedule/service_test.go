package schedule_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/schedule"
)

func TestScheduleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Schedule Service Suite")
}

// MockRepository implements schedule.Repository for testing, with a small
// user->team map standing in for the users table join.
type MockRepository struct {
	shifts map[string]*schedule.Shift
	teams  map[string]string
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		shifts: make(map[string]*schedule.Shift),
		teams:  make(map[string]string),
	}
}

func (m *MockRepository) SetTeam(userID, team string) {
	m.teams[userID] = team
}

func (m *MockRepository) Create(ctx context.Context, shift *schedule.Shift) error {
	m.shifts[shift.ID] = shift
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*schedule.Shift, error) {
	shift, ok := m.shifts[id]
	if !ok {
		return nil, schedule.ErrShiftNotFound
	}
	return shift, nil
}

func (m *MockRepository) List(ctx context.Context, filter schedule.Filter) ([]*schedule.Shift, error) {
	var result []*schedule.Shift
	for _, shift := range m.shifts {
		if filter.UserID != "" && shift.UserID != filter.UserID {
			continue
		}
		if filter.Team != "" && m.teams[shift.UserID] != filter.Team {
			continue
		}
		result = append(result, shift)
	}
	return result, nil
}

func (m *MockRepository) Update(ctx context.Context, shift *schedule.Shift) error {
	m.shifts[shift.ID] = shift
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	delete(m.shifts, id)
	return nil
}

func actorWith(userID string, role auth.Role, team string) *auth.Claims {
	return &auth.Claims{
		Role:             role,
		Team:             team,
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}
}

func strPtr(s string) *string { return &s }

var _ = Describe("Schedule Service", func() {
	var (
		mockRepo *MockRepository
		service  *schedule.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = schedule.NewService(mockRepo)
		ctx = context.Background()

		mockRepo.SetTeam("worker-1", "assembly")
		mockRepo.SetTeam("worker-2", "assembly")
		mockRepo.SetTeam("worker-3", "paint")

		for _, c := range []struct{ user, shift string }{
			{"worker-1", "day"},
			{"worker-2", "night"},
			{"worker-3", "day"},
		} {
			_, err := service.Create(ctx, schedule.CreateShiftDTO{
				Date:   "2025-06-02",
				UserID: c.user,
				Shift:  c.shift,
			})
			Expect(err).NotTo(HaveOccurred())
		}
	})

	Describe("List", func() {
		It("should show admins everything", func() {
			shifts, err := service.List(ctx, actorWith("admin-1", auth.RoleAdmin, ""), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(shifts).To(HaveLen(3))
		})

		It("should let admins narrow by team", func() {
			shifts, err := service.List(ctx, actorWith("admin-1", auth.RoleAdmin, ""), "paint")
			Expect(err).NotTo(HaveOccurred())
			Expect(shifts).To(HaveLen(1))
			Expect(shifts[0].UserID).To(Equal("worker-3"))
		})

		It("should pin managers to their own team", func() {
			shifts, err := service.List(ctx, actorWith("mgr-1", auth.RoleManager, "assembly"), "paint")
			Expect(err).NotTo(HaveOccurred())
			Expect(shifts).To(HaveLen(2))
		})

		It("should show workers only their own shifts", func() {
			shifts, err := service.List(ctx, actorWith("worker-1", auth.RoleWorker, "assembly"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(shifts).To(HaveLen(1))
			Expect(shifts[0].UserID).To(Equal("worker-1"))
		})
	})

	Describe("Create", func() {
		It("should reject a missing user", func() {
			_, err := service.Create(ctx, schedule.CreateShiftDTO{Date: "2025-06-02", Shift: "day"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("should apply a partial patch", func() {
			created, err := service.Create(ctx, schedule.CreateShiftDTO{
				Date:   "2025-06-03",
				UserID: "worker-1",
				Shift:  "day",
			})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.Update(ctx, created.ID, schedule.UpdateShiftDTO{Shift: strPtr("night")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Shift).To(Equal("night"))
			Expect(updated.Date).To(Equal("2025-06-03"))
		})

		It("should reject an empty patch", func() {
			created, err := service.Create(ctx, schedule.CreateShiftDTO{
				Date:   "2025-06-03",
				UserID: "worker-1",
				Shift:  "day",
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Update(ctx, created.ID, schedule.UpdateShiftDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should 404 an unknown shift", func() {
			_, err := service.Update(ctx, "missing", schedule.UpdateShiftDTO{Shift: strPtr("night")})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("should be a no-op for an unknown id", func() {
			Expect(service.Delete(ctx, "missing")).To(Succeed())
		})
	})
})
