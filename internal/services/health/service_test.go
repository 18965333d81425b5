package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"course-planner/internal/catalog"
)

type fakeSource struct {
	cat *catalog.Catalog
	err error
}

func (f fakeSource) Catalog(context.Context) (*catalog.Catalog, error) { return f.cat, f.err }

func TestStatusHealthy(t *testing.T) {
	cat, err := catalog.Load([]byte(`[{"course code":"CSC108H1","prerequisites":""}]`), catalog.BuildOptions{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	r := NewService(fakeSource{cat: cat}, db).Status(context.Background())
	if !r.OK || r.Database != "ok" || r.Catalog.Courses != 1 || r.Catalog.Version != cat.Version {
		t.Fatalf("unexpected report %+v", r)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStatusReportsFailures(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	r := NewService(fakeSource{err: errors.New("no dataset")}, db).Status(context.Background())
	if r.OK {
		t.Fatalf("expected unhealthy report")
	}
	if r.Database != "error" || r.Catalog.Error != "no dataset" {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestStatusWithoutDatabase(t *testing.T) {
	r := NewService(nil, nil).Status(context.Background())
	if !r.OK || r.Database != "memory" {
		t.Fatalf("unexpected report %+v", r)
	}
}
