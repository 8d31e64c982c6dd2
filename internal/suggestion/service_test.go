package suggestion_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/familyone/factory-ops/internal/suggestion"
)

func TestSuggestionService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Suggestion Service Suite")
}

type MockRepository struct {
	suggestions []*suggestion.Suggestion
}

func (m *MockRepository) Create(ctx context.Context, sug *suggestion.Suggestion) error {
	m.suggestions = append(m.suggestions, sug)
	return nil
}

func (m *MockRepository) List(ctx context.Context) ([]*suggestion.Suggestion, error) {
	return m.suggestions, nil
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

var _ = Describe("Suggestion Service", func() {
	var (
		mockRepo *MockRepository
		service  *suggestion.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		service = suggestion.NewService(mockRepo)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("should default to anonymous", func() {
			sug, err := service.Create(ctx, suggestion.CreateSuggestionDTO{
				Text:      "휴게실에 정수기를 추가해 주세요",
				CreatedBy: strPtr("worker-1"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sug.Anonymous).To(BeTrue())
			Expect(sug.CreatedBy).To(BeNil())
		})

		It("should keep the author on a named suggestion", func() {
			sug, err := service.Create(ctx, suggestion.CreateSuggestionDTO{
				Text:      "2라인 조명 교체 요청",
				Anonymous: boolPtr(false),
				CreatedBy: strPtr("worker-1"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sug.Anonymous).To(BeFalse())
			Expect(sug.CreatedBy).NotTo(BeNil())
			Expect(*sug.CreatedBy).To(Equal("worker-1"))
		})

		It("should drop the author when anonymous is explicit", func() {
			sug, err := service.Create(ctx, suggestion.CreateSuggestionDTO{
				Text:      "교대 시간 조정 건의",
				Anonymous: boolPtr(true),
				CreatedBy: strPtr("worker-1"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(sug.CreatedBy).To(BeNil())
		})

		It("should reject empty text", func() {
			_, err := service.Create(ctx, suggestion.CreateSuggestionDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("should return stored suggestions", func() {
			_, err := service.Create(ctx, suggestion.CreateSuggestionDTO{Text: "first"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, suggestion.CreateSuggestionDTO{Text: "second"})
			Expect(err).NotTo(HaveOccurred())

			sugs, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(sugs).To(HaveLen(2))
		})
	})
})
