package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/core/events"
	"github.com/familyone/factory-ops/internal/report"
)

func TestReportService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Service Suite")
}

// MockRepository implements report.Repository for testing
type MockRepository struct {
	reports    map[string]*report.Report
	replies    map[string][]*report.Reply
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		reports: make(map[string]*report.Report),
		replies: make(map[string][]*report.Reply),
	}
}

func (m *MockRepository) Create(ctx context.Context, r *report.Report) error {
	if m.shouldFail {
		return m.failError
	}
	m.reports[r.ID] = r
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*report.Report, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	r, ok := m.reports[id]
	if !ok {
		return nil, report.ErrReportNotFound
	}
	return r, nil
}

func (m *MockRepository) List(ctx context.Context, filter report.ScopeFilter) ([]*report.Report, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*report.Report
	for _, r := range m.reports {
		if filter.Site != "" && r.Site != filter.Site {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id string, status report.Status) error {
	if m.shouldFail {
		return m.failError
	}
	m.reports[id].Status = status
	return nil
}

func (m *MockRepository) UpdateMessage(ctx context.Context, id string, message string) error {
	if m.shouldFail {
		return m.failError
	}
	m.reports[id].Message = message
	return nil
}

func (m *MockRepository) UpdateImages(ctx context.Context, id string, images datatypes.JSON) error {
	if m.shouldFail {
		return m.failError
	}
	m.reports[id].Images = images
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.reports, id)
	delete(m.replies, id)
	return nil
}

func (m *MockRepository) CreateReply(ctx context.Context, reply *report.Reply) error {
	if m.shouldFail {
		return m.failError
	}
	m.replies[reply.ReportID] = append(m.replies[reply.ReportID], reply)
	return nil
}

func (m *MockRepository) ListReplies(ctx context.Context, reportID string) ([]*report.Reply, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.replies[reportID], nil
}

func (m *MockRepository) ListImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	for _, r := range m.reports {
		urls = append(urls, r.ImageList()...)
	}
	return urls, nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

// MockBlobDeleter records which urls were cascaded.
type MockBlobDeleter struct {
	deleted []string
}

func (m *MockBlobDeleter) DeleteByURL(url string) {
	m.deleted = append(m.deleted, url)
}

// MockPublisher records published events.
type MockPublisher struct {
	published []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func claimsFor(userID, role, site string) *auth.Claims {
	return &auth.Claims{
		Role: auth.Role(role),
		Site: site,
		Team: "assembly",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
}

var _ = Describe("Report Service", func() {
	var (
		mockRepo *MockRepository
		blobs    *MockBlobDeleter
		bus      *MockPublisher
		service  *report.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		blobs = &MockBlobDeleter{}
		bus = &MockPublisher{}
		service = report.NewService(mockRepo, blobs, bus)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("should stamp the creator's scope and publish an event", func() {
			created, err := service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type:    "machine_fault",
				Message: "press line 2 jammed",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.CreatedBy).To(Equal("worker-1"))
			Expect(created.Site).To(Equal("jeonju"))
			Expect(created.Status).To(Equal(report.StatusNew))
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.ReportNew))
		})

		It("should reject an unknown type", func() {
			_, err := service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type:    "vacation",
				Message: "nope",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("should reject an empty message", func() {
			_, err := service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type: "defect",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Moderate", func() {
		var existing *report.Report

		BeforeEach(func() {
			var err error
			existing, err = service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type:    "defect",
				Message: "scratched panels",
				Images:  []string{"/uploads/a.jpg", "/uploads/b.jpg"},
			})
			Expect(err).NotTo(HaveOccurred())
			bus.published = nil
		})

		It("should update status", func() {
			status := "ack"
			updated, err := service.Moderate(ctx, claimsFor("mgr-1", "manager", "jeonju"), existing.ID, &report.PatchOp{Status: &status})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(report.StatusAck))
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.ReportUpdated))
		})

		It("should refuse cross-site moderation", func() {
			status := "resolved"
			_, err := service.Moderate(ctx, claimsFor("mgr-2", "manager", "busan"), existing.ID, &report.PatchOp{Status: &status})
			Expect(err).To(MatchError(apperrors.ErrCrossSite))
		})

		It("should add images", func() {
			updated, err := service.Moderate(ctx, claimsFor("mgr-1", "manager", "jeonju"), existing.ID, &report.PatchOp{
				AddImages: []string{"/uploads/c.jpg"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ImageList()).To(ConsistOf("/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"))
		})

		It("should remove images and cascade blob deletion", func() {
			updated, err := service.Moderate(ctx, claimsFor("mgr-1", "manager", "jeonju"), existing.ID, &report.PatchOp{
				RemoveImages: []string{"/uploads/a.jpg"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.ImageList()).To(ConsistOf("/uploads/b.jpg"))
			Expect(blobs.deleted).To(ConsistOf("/uploads/a.jpg"))
		})

		It("should 404 on an unknown report", func() {
			status := "ack"
			_, err := service.Moderate(ctx, claimsFor("mgr-1", "manager", "jeonju"), "missing", &report.PatchOp{Status: &status})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("SelfUpdate", func() {
		var existing *report.Report

		BeforeEach(func() {
			var err error
			existing, err = service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type:    "other",
				Message: "original",
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should let the owner edit the message", func() {
			msg := "corrected"
			updated, err := service.SelfUpdate(ctx, claimsFor("worker-1", "worker", "jeonju"), existing.ID, &report.PatchOp{Message: &msg})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Message).To(Equal("corrected"))
		})

		It("should refuse non-owners", func() {
			msg := "hijacked"
			_, err := service.SelfUpdate(ctx, claimsFor("worker-2", "worker", "jeonju"), existing.ID, &report.PatchOp{Message: &msg})
			Expect(err).To(MatchError(apperrors.ErrNotOwner))
		})
	})

	Describe("Delete", func() {
		var existing *report.Report

		BeforeEach(func() {
			var err error
			existing, err = service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type:    "defect",
				Message: "to delete",
				Images:  []string{"/uploads/x.jpg"},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should let the owner delete and cascade blobs", func() {
			err := service.Delete(ctx, claimsFor("worker-1", "worker", "jeonju"), existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(blobs.deleted).To(ConsistOf("/uploads/x.jpg"))
			_, err = service.Moderate(ctx, claimsFor("mgr-1", "manager", "jeonju"), existing.ID, &report.PatchOp{AddImages: []string{"/uploads/y.jpg"}})
			Expect(err).To(HaveOccurred())
		})

		It("should let a manager delete someone else's report", func() {
			err := service.Delete(ctx, claimsFor("mgr-1", "manager", "jeonju"), existing.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should refuse an unrelated worker", func() {
			err := service.Delete(ctx, claimsFor("worker-2", "worker", "jeonju"), existing.ID)
			Expect(err).To(MatchError(apperrors.ErrNotOwner))
		})
	})

	Describe("CreateReply", func() {
		It("should attach the reply and rebroadcast the report", func() {
			existing, err := service.Create(ctx, claimsFor("worker-1", "worker", "jeonju"), report.CreateReportDTO{
				Type:    "defect",
				Message: "parent",
			})
			Expect(err).NotTo(HaveOccurred())
			bus.published = nil

			resp, err := service.CreateReply(ctx, claimsFor("mgr-1", "manager", "jeonju"), existing.ID, report.CreateReplyDTO{Content: "on it"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Content).To(Equal("on it"))
			Expect(resp.Report.ID).To(Equal(existing.ID))
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.ReportUpdated))
		})
	})

	Describe("List", func() {
		It("should surface repository failures as internal errors", func() {
			mockRepo.SetShouldFail(true, errors.New("database error"))
			_, err := service.List(ctx, report.ScopeFilter{})
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})
})

var _ = Describe("Patch decoding", func() {
	It("should accept exactly one moderator arm", func() {
		op, err := report.DecodeModeratePatch([]byte(`{"status":"ack"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(*op.Status).To(Equal("ack"))
	})

	It("should reject mixed moderator arms", func() {
		_, err := report.DecodeModeratePatch([]byte(`{"status":"ack","addImages":["/uploads/a.jpg"]}`))
		Expect(err).To(HaveOccurred())
	})

	It("should reject message in a moderator patch", func() {
		_, err := report.DecodeModeratePatch([]byte(`{"message":"not yours"}`))
		Expect(err).To(HaveOccurred())
	})

	It("should reject an invalid status value", func() {
		_, err := report.DecodeModeratePatch([]byte(`{"status":"done"}`))
		Expect(err).To(HaveOccurred())
	})

	It("should accept an owner message patch", func() {
		op, err := report.DecodeSelfPatch([]byte(`{"message":"fixed"}`))
		Expect(err).NotTo(HaveOccurred())
		Expect(*op.Message).To(Equal("fixed"))
	})

	It("should reject status in an owner patch", func() {
		_, err := report.DecodeSelfPatch([]byte(`{"status":"ack"}`))
		Expect(err).To(HaveOccurred())
	})

	It("should reject an empty owner patch", func() {
		_, err := report.DecodeSelfPatch([]byte(`{}`))
		Expect(err).To(HaveOccurred())
	})
})
