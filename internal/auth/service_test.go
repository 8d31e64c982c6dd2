package auth_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/familyone/factory-ops/internal"
	"github.com/familyone/factory-ops/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockUserRepository implements auth.UserRepository for testing
type MockUserRepository struct {
	users map[string]*auth.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*auth.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *auth.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*auth.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByName(ctx context.Context, name string) (*auth.User, error) {
	for _, user := range m.users {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

// MockOrgDirectory accepts a fixed set of site/team pairs.
type MockOrgDirectory struct {
	valid map[string]bool
}

func NewMockOrgDirectory() *MockOrgDirectory {
	return &MockOrgDirectory{valid: make(map[string]bool)}
}

func (m *MockOrgDirectory) Allow(site, team string) {
	m.valid[site+"/"+team] = true
}

func (m *MockOrgDirectory) ValidateTeam(ctx context.Context, site, team string, teamDetail *string) (bool, error) {
	return m.valid[site+"/"+team], nil
}

var _ = Describe("Auth Service", func() {
	var (
		users   *MockUserRepository
		org     *MockOrgDirectory
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		users = NewMockUserRepository()
		org = NewMockOrgDirectory()
		org.Allow("jeonju", "assembly")
		tokens = auth.NewJWTTokenGenerator("test-secret", time.Hour)
		service = auth.NewService(users, org, tokens, 4)
		ctx = context.Background()
	})

	Describe("Register", func() {
		It("should create the user and issue a valid token", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "worker",
				Site: "jeonju",
				Team: "assembly",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.User.ID).NotTo(BeEmpty())
			Expect(resp.Token).NotTo(BeEmpty())

			claims, err := tokens.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID()).To(Equal(resp.User.ID))
			Expect(claims.Role).To(Equal(auth.RoleWorker))
			Expect(claims.Site).To(Equal("jeonju"))
		})

		It("should refuse a site/team pair missing from the directory", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "worker",
				Site: "jeonju",
				Team: "paint",
			})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(appErr.Code).To(Equal(apperrors.ErrCodeInvalidOrgTriple))
		})

		It("should refuse an unknown role", func() {
			_, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "director",
				Site: "jeonju",
				Team: "assembly",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should hash the PIN when one is given", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "worker",
				Site: "jeonju",
				Team: "assembly",
				PIN:  "1234",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.User.PINHash).NotTo(BeEmpty())
			Expect(resp.User.PINHash).NotTo(Equal("1234"))
		})
	})

	Describe("Login", func() {
		var registered *auth.User

		BeforeEach(func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "worker",
				Site: "jeonju",
				Team: "assembly",
				PIN:  "1234",
			})
			Expect(err).NotTo(HaveOccurred())
			registered = resp.User
		})

		It("should log in by id with the right PIN", func() {
			resp, err := service.Login(ctx, auth.LoginDTO{UserID: registered.ID, PIN: "1234"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.User.ID).To(Equal(registered.ID))
		})

		It("should log in by name", func() {
			resp, err := service.Login(ctx, auth.LoginDTO{Name: "Kim", PIN: "1234"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.User.ID).To(Equal(registered.ID))
		})

		It("should refuse a wrong PIN", func() {
			_, err := service.Login(ctx, auth.LoginDTO{UserID: registered.ID, PIN: "9999"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(401))
		})

		It("should 404 an unknown user", func() {
			_, err := service.Login(ctx, auth.LoginDTO{UserID: "missing"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(404))
		})

		It("should require userId or name", func() {
			_, err := service.Login(ctx, auth.LoginDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("should skip the PIN check for users without one", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Lee",
				Role: "worker",
				Site: "jeonju",
				Team: "assembly",
			})
			Expect(err).NotTo(HaveOccurred())

			logged, err := service.Login(ctx, auth.LoginDTO{UserID: resp.User.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(logged.User.ID).To(Equal(resp.User.ID))
		})
	})

	Describe("Me", func() {
		It("should return the stored user", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "worker",
				Site: "jeonju",
				Team: "assembly",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := tokens.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())

			user, err := service.Me(ctx, claims)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(resp.User.ID))
		})

		It("should fall back to claims when the row is gone", func() {
			resp, err := service.Register(ctx, auth.RegisterDTO{
				Name: "Kim",
				Role: "worker",
				Site: "jeonju",
				Team: "assembly",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := tokens.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())

			delete(users.users, resp.User.ID)

			user, err := service.Me(ctx, claims)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(resp.User.ID))
			Expect(user.Name).To(Equal("Kim"))
		})
	})
})

var _ = Describe("Token generator", func() {
	It("should reject a token signed with another secret", func() {
		good := auth.NewJWTTokenGenerator("secret-a", time.Hour)
		bad := auth.NewJWTTokenGenerator("secret-b", time.Hour)

		token, err := good.SignToken(&auth.User{ID: "u1", Role: auth.RoleWorker})
		Expect(err).NotTo(HaveOccurred())

		_, err = bad.ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})

	It("should reject an expired token", func() {
		gen := auth.NewJWTTokenGenerator("secret", time.Hour)
		gen.TokenTTL = -time.Minute

		token, err := gen.SignToken(&auth.User{ID: "u1", Role: auth.RoleWorker})
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateToken(token)
		Expect(err).To(MatchError(auth.ErrTokenExpired))
	})
})

var _ = Describe("Capabilities", func() {
	It("should reserve org management for admins", func() {
		Expect(auth.Allowed(auth.RoleAdmin, auth.CapManageOrg)).To(BeTrue())
		Expect(auth.Allowed(auth.RoleManager, auth.CapManageOrg)).To(BeFalse())
		Expect(auth.Allowed(auth.RoleWorker, auth.CapManageOrg)).To(BeFalse())
	})

	It("should grant managers decision capabilities", func() {
		Expect(auth.Allowed(auth.RoleManager, auth.CapDecideRequests)).To(BeTrue())
		Expect(auth.Allowed(auth.RoleManager, auth.CapDecideLeaves)).To(BeTrue())
		Expect(auth.Allowed(auth.RoleWorker, auth.CapDecideRequests)).To(BeFalse())
	})
})
