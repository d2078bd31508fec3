package services

import (
	"testing"
	"time"

	"github.com/ramnagarhs/mdm-service/internal/models"
)

func TestNotificationTargeting(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@ramnagarhs.edu", "admin123", models.RoleTeacher)
	bob := createTestUser(t, db, "bob@ramnagarhs.edu", "admin123", models.RoleViewer)

	// One broadcast, one addressed to alice only.
	if _, err := CreateNotification(db, NotificationInput{
		Title: "Holiday tomorrow", Message: "School closed",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateNotification(db, NotificationInput{
		Title: "Submit Form C", Message: "Pending for yesterday",
		Users: []uint64{alice.ID},
	}); err != nil {
		t.Fatal(err)
	}

	aliceViews, err := ListNotificationsFor(db, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(aliceViews) != 2 {
		t.Errorf("Expected 2 notifications for the targeted user, got %d", len(aliceViews))
	}

	bobViews, err := ListNotificationsFor(db, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(bobViews) != 1 {
		t.Errorf("Expected only the broadcast for the other user, got %d", len(bobViews))
	}
}

func TestMarkNotificationReadIsPerUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@ramnagarhs.edu", "admin123", models.RoleTeacher)
	bob := createTestUser(t, db, "bob@ramnagarhs.edu", "admin123", models.RoleViewer)

	n, err := CreateNotification(db, NotificationInput{Title: "Notice", Message: "Read me"})
	if err != nil {
		t.Fatal(err)
	}

	if err := MarkNotificationRead(db, n.ID, alice.ID); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}

	check := func(userID uint64, wantRead bool) {
		t.Helper()
		views, err := ListNotificationsFor(db, userID)
		if err != nil {
			t.Fatal(err)
		}
		if len(views) != 1 {
			t.Fatalf("Expected 1 notification, got %d", len(views))
		}
		if views[0].Read != wantRead {
			t.Errorf("Expected isRead=%v for user %d, got %v", wantRead, userID, views[0].Read)
		}
	}
	check(alice.ID, true)
	check(bob.ID, false)
}

func TestExpiredNotificationsAreHidden(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice@ramnagarhs.edu", "admin123", models.RoleTeacher)

	past := time.Now().Add(-time.Hour)
	if _, err := CreateNotification(db, NotificationInput{
		Title: "Old", Message: "Expired", ExpiresAt: &past,
	}); err != nil {
		t.Fatal(err)
	}

	views, err := ListNotificationsFor(db, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 0 {
		t.Errorf("Expected expired notification to be hidden, got %d", len(views))
	}
}

func TestCleanupNotificationsRemovesStale(t *testing.T) {
	db := setupTestDB(t)

	fresh, err := CreateNotification(db, NotificationInput{Title: "Fresh", Message: "Keep"})
	if err != nil {
		t.Fatal(err)
	}
	stale, err := CreateNotification(db, NotificationInput{Title: "Stale", Message: "Drop"})
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-40 * 24 * time.Hour)
	if err := db.Model(stale).Update("created_at", old).Error; err != nil {
		t.Fatal(err)
	}

	removed, err := CleanupNotifications(db, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupNotifications failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}

	var remaining []models.Notification
	db.Find(&remaining)
	if len(remaining) != 1 || remaining[0].ID != fresh.ID {
		t.Errorf("Expected only the fresh notification to remain, got %+v", remaining)
	}
}
