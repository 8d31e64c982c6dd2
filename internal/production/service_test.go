package production_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/production"
)

func TestProductionService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Production Service Suite")
}

type MockRepository struct {
	productions []*production.Production
}

func (m *MockRepository) ListByDate(ctx context.Context, date string) ([]*production.Production, error) {
	var result []*production.Production
	for _, prod := range m.productions {
		if prod.Date == date {
			result = append(result, prod)
		}
	}
	return result, nil
}

func (m *MockRepository) Create(ctx context.Context, prod *production.Production) error {
	m.productions = append(m.productions, prod)
	return nil
}

var _ = Describe("Production Service", func() {
	var (
		mockRepo *MockRepository
		service  *production.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		service = production.NewService(mockRepo)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("should store a run with an id", func() {
			prod, err := service.Create(ctx, production.CreateProductionDTO{
				Date: "2025-06-02",
				Name: "프레임 A-200",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(prod.ID).NotTo(BeEmpty())
			Expect(prod.Name).To(Equal("프레임 A-200"))
		})

		It("should reject a malformed date", func() {
			_, err := service.Create(ctx, production.CreateProductionDTO{
				Date: "June 2nd",
				Name: "프레임 A-200",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("should reject a missing name", func() {
			_, err := service.Create(ctx, production.CreateProductionDTO{Date: "2025-06-02"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ByDate and Today", func() {
		It("should filter runs by date", func() {
			today := time.Now().Format("2006-01-02")
			for _, c := range []struct{ date, name string }{
				{today, "프레임 A-200"},
				{today, "도장 B-10"},
				{"2024-01-01", "구형 라인"},
			} {
				_, err := service.Create(ctx, production.CreateProductionDTO{Date: c.date, Name: c.name})
				Expect(err).NotTo(HaveOccurred())
			}

			prods, err := service.Today(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(prods).To(HaveLen(2))

			prods, err = service.ByDate(ctx, "2024-01-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(prods).To(HaveLen(1))
			Expect(prods[0].Name).To(Equal("구형 라인"))
		})
	})
})
