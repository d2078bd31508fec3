package services

import (
	"errors"
	"testing"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
)

func TestLoginIssuesTokenWithRoleClaim(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "head@school.test", "secret123", models.RoleTeacher)

	token, user, err := Login(db, "test-secret", time.Hour, "head@school.test", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.LastLogin == nil {
		t.Error("Expected lastLogin to be set")
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Role != models.RoleTeacher {
		t.Errorf("Expected role %q in claims, got %q", models.RoleTeacher, claims.Role)
	}
	if claims.Email != "head@school.test" {
		t.Errorf("Expected email claim, got %q", claims.Email)
	}
	if claims.UserID != user.ID {
		t.Errorf("Expected userId %d, got %d", user.ID, claims.UserID)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "known@school.test", "secret123", models.RoleViewer)

	_, _, wrongPassword := Login(db, "test-secret", time.Hour, "known@school.test", "wrong")
	_, _, unknownEmail := Login(db, "test-secret", time.Hour, "nobody@school.test", "wrong")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("Wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Errorf("Unknown email: expected ErrInvalidCredentials, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Errorf("Failure messages differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "old@school.test", "secret123", models.RoleViewer)
	db.Model(user).Update("status", models.UserInactive)

	_, _, err := Login(db, "test-secret", time.Hour, "old@school.test", "secret123")
	if !errors.Is(err, ErrInactiveAccount) {
		t.Errorf("Expected ErrInactiveAccount, got %v", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "a@school.test", "secret123", models.RoleAdmin)

	token, _, err := Login(db, "secret-one", time.Hour, "a@school.test", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := ParseToken("secret-two", token); err == nil {
		t.Error("Expected parse failure with a different secret")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "dup@school.test", "secret123", models.RoleViewer)

	_, err := Register(db, RegisterInput{
		Name:     "Another",
		Email:    "DUP@school.test",
		Password: "secret456",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	createTestUser(t, db, "forgot@school.test", "oldpass1", models.RoleViewer)

	reset, user, err := CreatePasswordReset(db, "forgot@school.test")
	if err != nil {
		t.Fatalf("CreatePasswordReset failed: %v", err)
	}
	if reset == nil || user == nil {
		t.Fatal("Expected a reset token for a known account")
	}

	if err := ResetPassword(db, reset.Token, "newpass1"); err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// Old password no longer works, new one does.
	if _, _, err := Login(db, "s", time.Hour, "forgot@school.test", "oldpass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected old password to fail, got %v", err)
	}
	if _, _, err := Login(db, "s", time.Hour, "forgot@school.test", "newpass1"); err != nil {
		t.Errorf("Expected new password to work, got %v", err)
	}

	// The token is single use.
	if err := ResetPassword(db, reset.Token, "another1"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("Expected consumed token to be rejected, got %v", err)
	}
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	db := setupTestDB(t)

	reset, user, err := CreatePasswordReset(db, "ghost@school.test")
	if err != nil {
		t.Fatalf("CreatePasswordReset failed: %v", err)
	}
	if reset != nil || user != nil {
		t.Error("Expected no reset for an unknown email")
	}
}
