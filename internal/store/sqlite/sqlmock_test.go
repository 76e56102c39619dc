package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return newWithDB(db, nil), mock
}

func TestAddLike_TranslatesDriverErrors(t *testing.T) {
	tests := []struct {
		name    string
		driver  error
		wantErr error
	}{
		{"unique", errors.New("constraint failed: UNIQUE constraint failed: likes.user_id, likes.recipe_id (1555)"), store.ErrAlreadyExists},
		{"primary key", errors.New("PRIMARY KEY constraint failed"), store.ErrAlreadyExists},
		{"foreign key", errors.New("constraint failed: FOREIGN KEY constraint failed (787)"), store.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			mock.ExpectExec("INSERT INTO likes").
				WithArgs("user-1", "recipe-1", sqlmock.AnyArg()).
				WillReturnError(tt.driver)

			err := s.AddLike(context.Background(), "user-1", "recipe-1", time.Now())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, tt.driver) {
				t.Errorf("driver error should stay in the chain")
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestAddLike_PassesOtherErrorsThrough(t *testing.T) {
	s, mock := newMockStore(t)
	boom := errors.New("disk I/O error")
	mock.ExpectExec("INSERT INTO likes").WillReturnError(boom)

	err := s.AddLike(context.Background(), "user-1", "recipe-1", time.Now())
	if !errors.Is(err, boom) {
		t.Fatalf("expected raw error, got %v", err)
	}
	if errors.Is(err, store.ErrAlreadyExists) || errors.Is(err, store.ErrNotFound) {
		t.Errorf("unexpected translation: %v", err)
	}
}

func TestDeleteCollection_RollsBackOnFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM collections").
		WithArgs("coll-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Trip"))
	mock.ExpectExec("UPDATE favorites SET collection").
		WithArgs("Favorites", "user-1", "Trip").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM collections").
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	if err := s.DeleteCollection(context.Background(), "user-1", "coll-1"); err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateRecipe_NoRows(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE recipes SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateRecipe(context.Background(), &domain.Recipe{
		ID: "recipe-1", Title: "Soup", Visibility: domain.VisibilityPublic, UpdatedAt: time.Now(),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
