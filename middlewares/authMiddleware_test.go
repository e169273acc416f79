package middlewares

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gatsolucoes/gat_backend/config"
	"github.com/gatsolucoes/gat_backend/models"
	"github.com/gatsolucoes/gat_backend/utils"
)

func setupAuthRouter(t *testing.T, roles ...models.UserRole) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.SetDB(db)

	r := gin.New()
	r.Use(AuthMiddleware())
	group := r.Group("", RequireRole(roles...))
	group.GET("/protected", func(c *gin.Context) {
		userId, _ := utils.GetUserIdFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": userId})
	})
	return r
}

func request(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createUser(t *testing.T, role models.UserRole, active bool) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s@%s.example.com", role, t.Name()),
		PasswordHash: "x",
		Name:         "Teste",
		Role:         role,
		IsActive:     &active,
	}
	if err := config.GetDB().Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func TestRequireRoleWithoutToken(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin)

	w := request(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin)

	w := request(r, "not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareRejectsRefreshTokenOnApi(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin)
	user, _ := createUser(t, models.UserRoleAdmin, true)

	refresh, err := utils.JwtGenerateRefresh(user.ID, string(user.Role))
	if err != nil {
		t.Fatalf("generate refresh: %v", err)
	}
	w := request(r, refresh)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin, models.UserRoleCoord)
	_, token := createUser(t, models.UserRoleCoord, true)

	w := request(r, token)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin)
	_, token := createUser(t, models.UserRoleTechnician, true)

	w := request(r, token)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireRoleRejectsDeactivatedUser(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin)
	_, token := createUser(t, models.UserRoleAdmin, false)

	w := request(r, token)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireRoleRejectsDeletedUser(t *testing.T) {
	r := setupAuthRouter(t, models.UserRoleAdmin)
	user, token := createUser(t, models.UserRoleAdmin, true)
	if err := config.GetDB().Delete(&models.User{}, user.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	w := request(r, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
