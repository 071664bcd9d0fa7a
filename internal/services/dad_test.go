package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/GregMSThompson/dadhelper-backend/internal/dto"
	"github.com/GregMSThompson/dadhelper-backend/internal/errs"
	"github.com/GregMSThompson/dadhelper-backend/internal/models"
	"github.com/GregMSThompson/dadhelper-backend/pkg/helpers"
)

func seedDads(store *fakeDadStore) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.dads["a"] = &models.Dad{UID: "a", Status: models.StatusApproved, CreatedAt: base}
	store.dads["b"] = &models.Dad{UID: "b", Status: models.StatusPending, CreatedAt: base.Add(time.Hour)}
	store.dads["c"] = &models.Dad{UID: "c", Status: models.StatusRejected, CreatedAt: base.Add(2 * time.Hour)}
	store.dads["d"] = &models.Dad{UID: "d", Status: models.StatusApproved, CreatedAt: base.Add(3 * time.Hour)}
}

func dadUIDs(dads []*models.Dad) []string {
	out := make([]string, 0, len(dads))
	for _, d := range dads {
		out = append(out, d.UID)
	}
	return out
}

func TestDadServiceListApprovedOnly(t *testing.T) {
	store := newFakeDadStore()
	seedDads(store)
	svc := NewDadService(store, newFakePhotos(), nil)

	got, err := svc.ListApproved(helpers.TestCtx())
	if err != nil {
		t.Fatalf("ListApproved returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"d", "a"}, dadUIDs(got)); diff != "" {
		t.Fatalf("approved list mismatch (-want +got):\n%s", diff)
	}
}

func TestDadServiceGetPublic(t *testing.T) {
	store := newFakeDadStore()
	seedDads(store)
	svc := NewDadService(store, newFakePhotos(), nil)
	ctx := helpers.TestCtx()

	if _, err := svc.GetPublic(ctx, "a"); err != nil {
		t.Fatalf("GetPublic(approved) returned error: %v", err)
	}
	for _, uid := range []string{"b", "c", "missing"} {
		_, err := svc.GetPublic(ctx, uid)
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			t.Fatalf("GetPublic(%s): expected NotFoundError, got %T", uid, err)
		}
	}
}

func TestDadServiceListByStatus(t *testing.T) {
	store := newFakeDadStore()
	seedDads(store)
	svc := NewDadService(store, newFakePhotos(), nil)
	ctx := helpers.TestCtx()

	pending, err := svc.ListByStatus(ctx, "")
	if err != nil {
		t.Fatalf("ListByStatus returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, dadUIDs(pending)); diff != "" {
		t.Fatalf("default list mismatch (-want +got):\n%s", diff)
	}

	rejected, _ := svc.ListByStatus(ctx, models.StatusRejected)
	if diff := cmp.Diff([]string{"c"}, dadUIDs(rejected)); diff != "" {
		t.Fatalf("rejected list mismatch (-want +got):\n%s", diff)
	}

	_, err = svc.ListByStatus(ctx, "banned")
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestDadServiceSetStatusTransitions(t *testing.T) {
	store := newFakeDadStore()
	seedDads(store)
	rec := &fakeRecorder{}
	svc := NewDadService(store, newFakePhotos(), rec)
	ctx := helpers.TestCtx()

	dad, err := svc.SetStatus(ctx, "b", models.StatusApproved)
	if err != nil || dad.Status != models.StatusApproved {
		t.Fatalf("approve pending = %+v, %v", dad, err)
	}

	// Repeating the decision is a no-op.
	dad, err = svc.SetStatus(ctx, "b", models.StatusApproved)
	if err != nil || dad.Status != models.StatusApproved {
		t.Fatalf("repeat approve = %+v, %v", dad, err)
	}
	if store.setCalls != 1 {
		t.Fatalf("store written %d times, want 1", store.setCalls)
	}

	_, err = svc.SetStatus(ctx, "b", models.StatusRejected)
	var ce *errs.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("approved -> rejected: expected ConflictError, got %T", err)
	}

	_, err = svc.SetStatus(ctx, "a", models.StatusPending)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("back to pending: expected ValidationError, got %T", err)
	}

	if diff := cmp.Diff([]string{"dad:approved"}, rec.changes); diff != "" {
		t.Fatalf("recorded changes mismatch (-want +got):\n%s", diff)
	}
}

func TestDadServiceUpdateProfile(t *testing.T) {
	store := newFakeDadStore()
	store.dads["u"] = &models.Dad{UID: "u", DisplayName: "Old", Bio: "keep"}
	svc := NewDadService(store, newFakePhotos(), nil)
	ctx := helpers.TestCtx()

	dad, err := svc.UpdateProfile(ctx, "u", dto.UpdateDadProfileRequest{DisplayName: helpers.Ptr("  Handy Hank ")})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if dad.DisplayName != "Handy Hank" || dad.Bio != "keep" {
		t.Fatalf("unexpected profile: %+v", dad)
	}

	_, err = svc.UpdateProfile(ctx, "u", dto.UpdateDadProfileRequest{})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("empty update: expected ValidationError, got %T", err)
	}

	_, err = svc.UpdateProfile(ctx, "u", dto.UpdateDadProfileRequest{DisplayName: helpers.Ptr(strings.Repeat("x", 81))})
	if !errors.As(err, &ve) {
		t.Fatalf("long name: expected ValidationError, got %T", err)
	}
}

func TestDadServiceUploadPhoto(t *testing.T) {
	store := newFakeDadStore()
	store.dads["u"] = &models.Dad{UID: "u", PhotoPath: "dads/u/old.png"}
	photos := newFakePhotos()
	svc := NewDadService(store, photos, nil)
	ctx := helpers.TestCtx()

	body := "fake-jpeg"
	dad, err := svc.UploadPhoto(ctx, "u", dto.PhotoUpload{ContentType: "image/jpeg", Size: int64(len(body))}, strings.NewReader(body))
	if err != nil {
		t.Fatalf("UploadPhoto returned error: %v", err)
	}
	if !strings.HasPrefix(dad.PhotoPath, "dads/u/") || !strings.HasSuffix(dad.PhotoPath, ".jpg") {
		t.Fatalf("unexpected photo path %q", dad.PhotoPath)
	}
	if string(photos.uploaded[dad.PhotoPath]) != body {
		t.Fatalf("uploaded bytes mismatch")
	}
	if store.dads["u"].PhotoURL != dad.PhotoURL {
		t.Fatalf("photo URL not persisted")
	}
	if diff := cmp.Diff([]string{"dads/u/old.png"}, photos.deleted); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
}

func TestDadServiceUploadPhotoRejectsBadInput(t *testing.T) {
	store := newFakeDadStore()
	store.dads["u"] = &models.Dad{UID: "u"}
	photos := newFakePhotos()
	svc := NewDadService(store, photos, nil)

	tests := map[string]dto.PhotoUpload{
		"gif":   {ContentType: "image/gif", Size: 10},
		"huge":  {ContentType: "image/png", Size: MaxPhotoBytes + 1},
		"empty": {ContentType: "image/png", Size: 0},
	}
	for name, upload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.UploadPhoto(helpers.TestCtx(), "u", upload, strings.NewReader("x"))
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
		})
	}
	if len(photos.uploaded) != 0 {
		t.Fatalf("invalid uploads reached storage")
	}
}

func TestDadServiceUploadPhotoRemovesObjectWhenSaveFails(t *testing.T) {
	store := newFakeDadStore()
	store.dads["u"] = &models.Dad{UID: "u", PhotoPath: "dads/u/old.png"}
	store.setPhotoErr = errs.NewDatabaseError("set photo", "failed to save photo", errors.New("unavailable"))
	photos := newFakePhotos()
	svc := NewDadService(store, photos, nil)

	body := "fake-png"
	_, err := svc.UploadPhoto(helpers.TestCtx(), "u", dto.PhotoUpload{ContentType: "image/png", Size: int64(len(body))}, strings.NewReader(body))
	var de *errs.DatabaseError
	if !errors.As(err, &de) {
		t.Fatalf("expected DatabaseError, got %T", err)
	}

	if len(photos.uploaded) != 1 {
		t.Fatalf("expected one upload, got %d", len(photos.uploaded))
	}
	var uploaded string
	for path := range photos.uploaded {
		uploaded = path
	}
	if diff := cmp.Diff([]string{uploaded}, photos.deleted); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
	if store.dads["u"].PhotoPath != "dads/u/old.png" {
		t.Fatalf("previous photo path was overwritten")
	}
}
