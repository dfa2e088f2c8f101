package handler_test

import (
	"testing"

	"github.com/valyala/fasthttp"
)

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name":     "Sally",
		"password": "secret",
	})

	if status != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["success"] != false {
		t.Fatalf("expected success:false, got %v", body)
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name":             "Sally",
		"email":            "sally@me.com",
		"password":         "secret",
		"confirm_password": "different",
	})

	if status != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if body["success"] != false {
		t.Fatalf("expected success:false, got %v", body)
	}
}

func TestRegister_Success(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name":             "Sally",
		"email":            "sally@me.com",
		"password":         "secret",
		"confirm_password": "secret",
	})

	if status != fasthttp.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if body["success"] != true {
		t.Fatalf("expected success:true, got %v", body)
	}
	data := body["data"].(map[string]interface{})
	if data["email"] != "sally@me.com" || data["name"] != "Sally" {
		t.Fatalf("unexpected user payload: %v", data)
	}
	if _, leaked := data["password_hash"]; leaked {
		t.Fatal("password hash must not be serialized")
	}
}

func TestRegister_ExistingEmail(t *testing.T) {
	app := newTestApp(t, appOptions{})
	payload := map[string]string{
		"name":             "Sally",
		"email":            "sally@me.com",
		"password":         "secret",
		"confirm_password": "secret",
	}

	if status, _ := app.do(t, "POST", "/api/auth/register", "", payload); status != fasthttp.StatusCreated {
		t.Fatalf("first register should succeed, got %d", status)
	}

	status, body := app.do(t, "POST", "/api/auth/register", "", payload)
	if status != fasthttp.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if body["success"] != false {
		t.Fatalf("expected success:false, got %v", body)
	}
}

func TestLogin_Success(t *testing.T) {
	app := newTestApp(t, appOptions{})
	app.registerAndLogin(t)

	status, body := app.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "sally@me.com",
		"password": "secret",
	})

	if status != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := body["data"].(map[string]interface{})
	for _, field := range []string{"access_token", "token_type", "expires_in"} {
		if _, ok := data[field]; !ok {
			t.Fatalf("data.%s missing in %v", field, data)
		}
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "sally@me.com",
		"password": "secret",
	})

	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body["success"] != false {
		t.Fatalf("expected success:false, got %v", body)
	}
}

func TestLogout_Success(t *testing.T) {
	app := newTestApp(t, appOptions{})
	tokenString := app.registerAndLogin(t)

	status, body := app.do(t, "POST", "/api/auth/logout", tokenString, nil)
	if status != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["success"] != true || body["message"] != "Successfully logged out." {
		t.Fatalf("unexpected logout body: %v", body)
	}
	if _, hasData := body["data"]; hasData {
		t.Fatalf("logout response must not carry data: %v", body)
	}

	// the token is now revoked
	status, body = app.do(t, "POST", "/api/auth/profile", tokenString, nil)
	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", status)
	}
	if body["message"] != "Unauthenticated." {
		t.Fatalf("expected Unauthenticated. message, got %v", body)
	}
}

func TestLogout_Unauthenticated(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/logout", "", nil)
	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body["message"] != "Unauthenticated." {
		t.Fatalf("expected Unauthenticated. message, got %v", body)
	}
}

func TestProfile_Success(t *testing.T) {
	app := newTestApp(t, appOptions{})
	tokenString := app.registerAndLogin(t)

	status, body := app.do(t, "POST", "/api/auth/profile", tokenString, nil)
	if status != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := body["data"].(map[string]interface{})
	for _, field := range []string{"id", "name", "email", "created_at", "updated_at"} {
		if _, ok := data[field]; !ok {
			t.Fatalf("data.%s missing in %v", field, data)
		}
	}
}

func TestProfile_Unauthenticated(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/profile", "", nil)
	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body["message"] != "Unauthenticated." {
		t.Fatalf("expected Unauthenticated. message, got %v", body)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	app := newTestApp(t, appOptions{})
	oldToken := app.registerAndLogin(t)

	status, body := app.do(t, "POST", "/api/auth/refresh", oldToken, nil)
	if status != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	newToken := dataField(t, body, "access_token")
	if newToken == oldToken {
		t.Fatal("refresh must return a different token")
	}

	// old token revoked, new token valid
	if status, _ := app.do(t, "POST", "/api/auth/profile", oldToken, nil); status != fasthttp.StatusUnauthorized {
		t.Fatalf("old token should be rejected, got %d", status)
	}
	if status, _ := app.do(t, "POST", "/api/auth/profile", newToken, nil); status != fasthttp.StatusOK {
		t.Fatalf("new token should be accepted, got %d", status)
	}
}

func TestRefresh_Unauthenticated(t *testing.T) {
	app := newTestApp(t, appOptions{})

	status, body := app.do(t, "POST", "/api/auth/refresh", "", nil)
	if status != fasthttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body["message"] != "Unauthenticated." {
		t.Fatalf("expected Unauthenticated. message, got %v", body)
	}
}
