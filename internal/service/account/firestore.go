package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/renthub/profile-service/internal/platform/logging"
)

const (
	accountsCollection   = "accounts"
	activationCollection = "activation_requests"
)

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}

// firestoreAccount maps to the Firestore document structure.
type firestoreAccount struct {
	FullName           string     `firestore:"full_name"`
	Email              string     `firestore:"email"`
	Phone              string     `firestore:"phone"`
	Location           string     `firestore:"location"`
	Bio                string     `firestore:"bio"`
	BirthDate          *time.Time `firestore:"birth_date"`
	Avatar             string     `firestore:"avatar"`
	EmailNotifications bool       `firestore:"email_notifications"`
	PayLater           bool       `firestore:"pay_later"`
	Verified           bool       `firestore:"verified"`
	CreatedAt          time.Time  `firestore:"created_at"`
	UpdatedAt          time.Time  `firestore:"updated_at"`
}

// FirestoreStore implements Service against Firestore for colocated
// deployments that do not front a separate account backend.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Get retrieves a profile by account ID.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*Profile, error) {
	docRef := s.client.Collection(accountsCollection).Doc(id)
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var fa firestoreAccount
	if err := doc.DataTo(&fa); err != nil {
		return nil, err
	}
	return toProfile(id, fa), nil
}

// CheckName reports whether another account already holds the display name.
func (s *FirestoreStore) CheckName(ctx context.Context, name string) (bool, error) {
	iter := s.client.Collection(accountsCollection).
		Where("full_name", "==", strings.TrimSpace(name)).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update persists the commit payload in a transaction for atomicity.
func (s *FirestoreStore) Update(ctx context.Context, params UpdateParams) (*Profile, error) {
	docRef := s.client.Collection(accountsCollection).Doc(params.ID)

	var result *Profile

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}

		var fa firestoreAccount
		if err := doc.DataTo(&fa); err != nil {
			return err
		}

		fa.FullName = strings.TrimSpace(params.FullName)
		fa.Phone = strings.TrimSpace(params.Phone)
		fa.Location = params.Location
		fa.Bio = params.Bio
		if params.BirthDate != nil {
			bd := params.BirthDate.UTC()
			fa.BirthDate = &bd
		}
		switch params.Preference {
		case PreferenceEmailNotifications:
			fa.EmailNotifications = params.PreferenceEnabled
		case PreferencePayLater:
			fa.PayLater = params.PreferenceEnabled
		}
		fa.UpdatedAt = time.Now().UTC()

		if err := tx.Set(docRef, fa); err != nil {
			return err
		}

		result = toProfile(params.ID, fa)
		return nil
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "update", params.ID, "account", params.ID, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "update", params.ID, "account", params.ID, "success", nil)

	return result, nil
}

// UpdatePreference flips one preference flag in a transaction.
func (s *FirestoreStore) UpdatePreference(ctx context.Context, id string, pref Preference, enabled bool) error {
	docRef := s.client.Collection(accountsCollection).Doc(id)

	field := "email_notifications"
	if pref == PreferencePayLater {
		field = "pay_later"
	}

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(docRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		return tx.Update(docRef, []firestore.Update{
			{Path: field, Value: enabled},
			{Path: "updated_at", Value: time.Now().UTC()},
		})
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "update_preference", id, "account", id, "failure",
			map[string]any{"error": categorizeError(err), "preference": string(pref)})
		return err
	}

	applog.LogAuditEvent(ctx, "update_preference", id, "account", id, "success",
		map[string]any{"preference": string(pref)})

	return nil
}

// ResendActivation queues an activation request for the mailer worker.
func (s *FirestoreStore) ResendActivation(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	_, _, err := s.client.Collection(activationCollection).Add(ctx, map[string]any{
		"email":        normalized,
		"requested_at": firestore.ServerTimestamp,
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "resend_activation", normalized, "account", normalized, "failure",
			map[string]any{"error": err.Error()})
		return err
	}
	applog.LogAuditEvent(ctx, "resend_activation", normalized, "account", normalized, "success", nil)
	return nil
}

func toProfile(id string, fa firestoreAccount) *Profile {
	return &Profile{
		ID:                 id,
		FullName:           fa.FullName,
		Email:              fa.Email,
		Phone:              fa.Phone,
		Location:           fa.Location,
		Bio:                fa.Bio,
		BirthDate:          fa.BirthDate,
		Avatar:             fa.Avatar,
		EmailNotifications: fa.EmailNotifications,
		PayLater:           fa.PayLater,
		Verified:           fa.Verified,
		CreatedAt:          fa.CreatedAt,
		UpdatedAt:          fa.UpdatedAt,
	}
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
