package checklist_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/checklist"
	"github.com/familyone/factory-ops/internal/core/events"
)

func TestChecklistService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Checklist Service Suite")
}

type MockRepository struct {
	templates   []*checklist.Template
	submissions map[string]*checklist.Submission
}

func NewMockRepository() *MockRepository {
	return &MockRepository{submissions: make(map[string]*checklist.Submission)}
}

func (m *MockRepository) ListTemplates(ctx context.Context, category checklist.Category) ([]*checklist.Template, error) {
	var result []*checklist.Template
	for _, t := range m.templates {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *MockRepository) CreateSubmission(ctx context.Context, sub *checklist.Submission) error {
	m.submissions[sub.ID] = sub
	return nil
}

func (m *MockRepository) ListSubmissions(ctx context.Context, date string) ([]*checklist.Submission, error) {
	var result []*checklist.Submission
	for _, sub := range m.submissions {
		if sub.Date == date {
			result = append(result, sub)
		}
	}
	return result, nil
}

type MockPublisher struct {
	published []events.Event
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Checklist Service", func() {
	var (
		mockRepo *MockRepository
		mockBus  *MockPublisher
		service  *checklist.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		mockBus = &MockPublisher{}
		service = checklist.NewService(mockRepo, mockBus)
		ctx = context.Background()

		mockRepo.templates = []*checklist.Template{
			{ID: "safety-ppe", Category: checklist.CategorySafety, Title: "보호구 착용 확인"},
			{ID: "safety-floor", Category: checklist.CategorySafety, Title: "작업장 바닥 정리"},
			{ID: "quality-gauge", Category: checklist.CategoryQuality, Title: "측정기 영점 확인"},
		}
	})

	Describe("Templates", func() {
		It("should list templates for one category", func() {
			templates, err := service.Templates(ctx, checklist.CategorySafety)
			Expect(err).NotTo(HaveOccurred())
			Expect(templates).To(HaveLen(2))
		})

		It("should reject an unknown category", func() {
			_, err := service.Templates(ctx, "hygiene")
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("Submit", func() {
		It("should store the submission and publish an event", func() {
			sub, err := service.Submit(ctx, checklist.SubmitDTO{
				Date:     "2025-06-02",
				UserID:   "worker-1",
				Category: "safety",
				Items: []checklist.Item{
					{ID: "safety-ppe", Category: checklist.CategorySafety, Title: "보호구 착용 확인", Checked: true},
				},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.ID).NotTo(BeEmpty())
			Expect(sub.Category).To(Equal(checklist.CategorySafety))
			Expect(sub.ItemList()).To(HaveLen(1))
			Expect(sub.ItemList()[0].Checked).To(BeTrue())

			Expect(mockBus.published).To(HaveLen(1))
			Expect(mockBus.published[0].EventType()).To(Equal(events.ChecklistSubmitted))
		})

		It("should accept an empty item list", func() {
			sub, err := service.Submit(ctx, checklist.SubmitDTO{
				Date:     "2025-06-02",
				UserID:   "worker-1",
				Category: "quality",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.ItemList()).To(BeEmpty())
		})

		It("should reject an invalid category", func() {
			_, err := service.Submit(ctx, checklist.SubmitDTO{
				Date:     "2025-06-02",
				UserID:   "worker-1",
				Category: "hygiene",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(mockBus.published).To(BeEmpty())
		})

		It("should reject a missing date", func() {
			_, err := service.Submit(ctx, checklist.SubmitDTO{
				UserID:   "worker-1",
				Category: "safety",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListSubmissions", func() {
		It("should filter by date", func() {
			for _, date := range []string{"2025-06-02", "2025-06-02", "2025-06-03"} {
				_, err := service.Submit(ctx, checklist.SubmitDTO{
					Date:     date,
					UserID:   "worker-1",
					Category: "safety",
				})
				Expect(err).NotTo(HaveOccurred())
			}

			subs, err := service.ListSubmissions(ctx, "2025-06-02")
			Expect(err).NotTo(HaveOccurred())
			Expect(subs).To(HaveLen(2))
		})
	})
})
