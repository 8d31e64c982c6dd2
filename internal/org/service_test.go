package org_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/org"
)

func TestOrgService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Org Service Suite")
}

// MockRepository implements org.Repository for testing
type MockRepository struct {
	sites []org.Site
	teams map[string]*org.SiteTeam
}

func NewMockRepository() *MockRepository {
	return &MockRepository{teams: make(map[string]*org.SiteTeam)}
}

func (m *MockRepository) AddSite(site, name string) {
	m.sites = append(m.sites, org.Site{Site: site, Name: name})
}

func (m *MockRepository) ListSites(ctx context.Context) ([]org.Site, error) {
	return m.sites, nil
}

func (m *MockRepository) ListTeams(ctx context.Context, site string) ([]org.SiteTeam, error) {
	var result []org.SiteTeam
	for _, t := range m.teams {
		if site != "" && t.Site != site {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (m *MockRepository) GetTeam(ctx context.Context, id string) (*org.SiteTeam, error) {
	t, ok := m.teams[id]
	if !ok {
		return nil, org.ErrTeamNotFound
	}
	return t, nil
}

func (m *MockRepository) FindTeams(ctx context.Context, site, team string) ([]org.SiteTeam, error) {
	var result []org.SiteTeam
	for _, t := range m.teams {
		if t.Site == site && t.Team == team {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *MockRepository) CreateTeam(ctx context.Context, t *org.SiteTeam) error {
	m.teams[t.ID] = t
	return nil
}

func (m *MockRepository) UpdateTeam(ctx context.Context, t *org.SiteTeam) error {
	m.teams[t.ID] = t
	return nil
}

func (m *MockRepository) DeleteTeam(ctx context.Context, id string) error {
	delete(m.teams, id)
	return nil
}

func strPtr(s string) *string { return &s }

var _ = Describe("Org Service", func() {
	var (
		mockRepo *MockRepository
		service  *org.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = org.NewService(mockRepo)
		ctx = context.Background()
	})

	Describe("ValidateTeam", func() {
		It("should reject a pair missing from the directory", func() {
			ok, err := service.ValidateTeam(ctx, "jeonju", "assembly", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		Context("team without sub-team details", func() {
			BeforeEach(func() {
				_, err := service.CreateTeam(ctx, org.CreateTeamDTO{Site: "jeonju", Team: "assembly"})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should accept any teamDetail", func() {
				ok, err := service.ValidateTeam(ctx, "jeonju", "assembly", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())

				ok, err = service.ValidateTeam(ctx, "jeonju", "assembly", strPtr("whatever"))
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())
			})
		})

		Context("team with sub-team details", func() {
			BeforeEach(func() {
				_, err := service.CreateTeam(ctx, org.CreateTeamDTO{
					Site:    "jeonju",
					Team:    "production",
					Details: []string{"line-1", "line-2"},
				})
				Expect(err).NotTo(HaveOccurred())
			})

			It("should require a matching detail", func() {
				ok, err := service.ValidateTeam(ctx, "jeonju", "production", strPtr("line-1"))
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())
			})

			It("should reject a missing detail", func() {
				ok, err := service.ValidateTeam(ctx, "jeonju", "production", nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
			})

			It("should reject a wrong detail", func() {
				ok, err := service.ValidateTeam(ctx, "jeonju", "production", strPtr("line-9"))
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
			})
		})
	})

	Describe("GetDirectory", func() {
		It("should group teams by site and include empty sites", func() {
			mockRepo.AddSite("jeonju", "전주 공장")
			mockRepo.AddSite("busan", "부산 공장")
			_, err := service.CreateTeam(ctx, org.CreateTeamDTO{Site: "jeonju", Team: "assembly"})
			Expect(err).NotTo(HaveOccurred())

			dir, err := service.GetDirectory(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(dir.Sites).To(HaveLen(2))
			Expect(dir.Teams["jeonju"]).To(HaveLen(1))
			Expect(dir.Teams["busan"]).To(BeEmpty())
		})
	})

	Describe("UpdateTeam", func() {
		It("should apply a partial patch", func() {
			created, err := service.CreateTeam(ctx, org.CreateTeamDTO{Site: "jeonju", Team: "assembly"})
			Expect(err).NotTo(HaveOccurred())

			updated, err := service.UpdateTeam(ctx, created.ID, org.UpdateTeamDTO{Team: strPtr("final-assembly")})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Team).To(Equal("final-assembly"))
			Expect(updated.Site).To(Equal("jeonju"))
		})

		It("should reject an empty patch", func() {
			created, err := service.CreateTeam(ctx, org.CreateTeamDTO{Site: "jeonju", Team: "assembly"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdateTeam(ctx, created.ID, org.UpdateTeamDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should 404 an unknown team", func() {
			_, err := service.UpdateTeam(ctx, "missing", org.UpdateTeamDTO{Team: strPtr("x")})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})
	})

	Describe("DeleteTeam", func() {
		It("should be a no-op for an unknown id", func() {
			Expect(service.DeleteTeam(ctx, "missing")).To(Succeed())
		})
	})

	Describe("ListTeams", func() {
		It("should narrow to one site", func() {
			_, err := service.CreateTeam(ctx, org.CreateTeamDTO{Site: "jeonju", Team: "assembly"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateTeam(ctx, org.CreateTeamDTO{Site: "busan", Team: "paint"})
			Expect(err).NotTo(HaveOccurred())

			teams, err := service.ListTeams(ctx, "jeonju")
			Expect(err).NotTo(HaveOccurred())
			Expect(teams).To(HaveLen(1))
			Expect(teams[0].Team).To(Equal("assembly"))
		})
	})
})
