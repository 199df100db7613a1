package sqlite_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/goleak"

	dbfs "github.com/etnagroup/residence/db"
	dbpkg "github.com/etnagroup/residence/internal/db"
	sqlite "github.com/etnagroup/residence/internal/repository/sqlite"
	"github.com/etnagroup/residence/pkg/models"
	"github.com/etnagroup/residence/pkg/repository"
)

func TestMain(m *testing.M) {
	// verify no goroutine leaks across tests in this package
	defer goleak.VerifyTestMain(m)
	os.Exit(m.Run())
}

func setupRepo(t *testing.T) *sqlite.SQLiteRepo {
	t.Helper()
	ctx := context.Background()
	d, err := dbpkg.New(ctx, filepath.Join(t.TempDir(), "repo.db"), nil)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(d, nil)
}

func mustComplex(t *testing.T, repo *sqlite.SQLiteRepo) *models.Complex {
	t.Helper()
	c := &models.Complex{Name: "Etna Residence", City: "Pristina", Country: "Kosovo"}
	if _, err := repo.CreateComplex(context.Background(), c); err != nil {
		t.Fatalf("CreateComplex error: %v", err)
	}
	return c
}

func mustBuilding(t *testing.T, repo *sqlite.SQLiteRepo, complexID int64, name string) *models.Building {
	t.Helper()
	b := &models.Building{ComplexID: complexID, Name: name, Code: name, Floors: 10}
	if _, err := repo.CreateBuilding(context.Background(), b); err != nil {
		t.Fatalf("CreateBuilding error: %v", err)
	}
	return b
}

func mustUnit(t *testing.T, repo *sqlite.SQLiteRepo, u models.Unit) *models.Unit {
	t.Helper()
	if u.UnitNumber == "" {
		u.UnitNumber = "U-1"
	}
	if u.Type == "" {
		u.Type = models.UnitTypeA
	}
	if _, err := repo.CreateUnit(context.Background(), &u); err != nil {
		t.Fatalf("CreateUnit error: %v", err)
	}
	return &u
}

func TestComplexCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateComplex(ctx, nil); err == nil {
		t.Fatalf("expected error when creating nil complex")
	}

	// Non-existing ID should return nil, nil
	got, err := repo.GetComplex(ctx, 9999)
	if err != nil {
		t.Fatalf("expected no error when getting non-existing ID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil when getting non-existing ID got: %#v", got)
	}

	c := mustComplex(t, repo)
	if c.ID == 0 {
		t.Fatalf("expected non-zero id")
	}
	if c.CreatedAt.IsZero() || !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Fatalf("expected timestamps set on create, got %v / %v", c.CreatedAt, c.UpdatedAt)
	}

	got, err = repo.GetComplex(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetComplex error: %v", err)
	}
	if got == nil || got.Name != c.Name || got.City != c.City || !got.CreatedAt.Equal(c.CreatedAt) {
		t.Fatalf("GetComplex wrong result: %#v", got)
	}

	got.Description = "Premium living"
	if err := repo.UpdateComplex(ctx, got); err != nil {
		t.Fatalf("UpdateComplex error: %v", err)
	}
	again, _ := repo.GetComplex(ctx, c.ID)
	if again.Description != "Premium living" {
		t.Fatalf("update not persisted: %#v", again)
	}
	if !again.CreatedAt.Equal(c.CreatedAt) {
		t.Fatalf("created_at changed on update")
	}

	list, err := repo.ListComplexes(ctx)
	if err != nil {
		t.Fatalf("ListComplexes error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 complex, got %d", len(list))
	}

	if err := repo.DeleteComplex(ctx, c.ID); err != nil {
		t.Fatalf("DeleteComplex error: %v", err)
	}
	if err := repo.DeleteComplex(ctx, c.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.UpdateComplex(ctx, c); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating deleted complex, got %v", err)
	}
}

func TestListsAreEmptyNotNil(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	complexes, err := repo.ListComplexes(ctx)
	if err != nil || complexes == nil {
		t.Fatalf("ListComplexes = %v, %v; want empty slice", complexes, err)
	}
	units, err := repo.ListUnitsByBuilding(ctx, 42)
	if err != nil || units == nil || len(units) != 0 {
		t.Fatalf("ListUnitsByBuilding = %v, %v; want empty slice", units, err)
	}
	inquiries, err := repo.ListInquiries(ctx)
	if err != nil || inquiries == nil {
		t.Fatalf("ListInquiries = %v, %v; want empty slice", inquiries, err)
	}
}

func TestBuildingCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustComplex(t, repo)
	other := mustComplex(t, repo)
	tara := mustBuilding(t, repo, c.ID, "Tara")
	mustBuilding(t, repo, c.ID, "Tiani")
	mustBuilding(t, repo, other.ID, "Elsewhere")

	byComplex, err := repo.ListBuildingsByComplex(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListBuildingsByComplex error: %v", err)
	}
	if len(byComplex) != 2 {
		t.Fatalf("expected 2 buildings for complex, got %d", len(byComplex))
	}

	all, err := repo.ListBuildings(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListBuildings = %d, %v; want 3", len(all), err)
	}

	tara.Floors = 14
	if err := repo.UpdateBuilding(ctx, tara); err != nil {
		t.Fatalf("UpdateBuilding error: %v", err)
	}
	got, err := repo.GetBuilding(ctx, tara.ID)
	if err != nil || got == nil || got.Floors != 14 {
		t.Fatalf("GetBuilding = %#v, %v", got, err)
	}

	if err := repo.DeleteBuilding(ctx, tara.ID); err != nil {
		t.Fatalf("DeleteBuilding error: %v", err)
	}
	if got, _ := repo.GetBuilding(ctx, tara.ID); got != nil {
		t.Fatalf("expected building gone")
	}
}

func TestBuildingRequiresExistingComplex(t *testing.T) {
	repo := setupRepo(t)
	b := &models.Building{ComplexID: 777, Name: "Orphan", Code: "ORPH"}
	if _, err := repo.CreateBuilding(context.Background(), b); err == nil {
		t.Fatalf("expected foreign key violation for unknown complex")
	}
}

func TestUnitCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustComplex(t, repo)
	b := mustBuilding(t, repo, c.ID, "Tara")

	u := mustUnit(t, repo, models.Unit{
		BuildingID:  b.ID,
		UnitNumber:  "PH-01",
		Type:        models.UnitTypePenthouse,
		Bedrooms:    3,
		Bathrooms:   decimal.RequireFromString("2.5"),
		InteriorSqm: decimal.RequireFromString("180.5"),
		ExteriorSqm: decimal.RequireFromString("85"),
		TotalSqm:    decimal.RequireFromString("265.5"),
		Price:       decimal.RequireFromString("450000"),
		MoveInReady: true,
		Facing:      "South",
		Floor:       12,
	})
	if u.Status != models.UnitStatusAvailable {
		t.Fatalf("expected default status Available, got %q", u.Status)
	}
	if u.Gallery != "[]" {
		t.Fatalf("expected default gallery [], got %q", u.Gallery)
	}

	got, err := repo.GetUnit(ctx, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetUnit = %#v, %v", got, err)
	}
	if !got.Bathrooms.Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("bathrooms round trip: got %s", got.Bathrooms)
	}
	if !got.Price.Equal(decimal.NewFromInt(450000)) {
		t.Fatalf("price round trip: got %s", got.Price)
	}
	if got.Type != models.UnitTypePenthouse || !got.MoveInReady || got.Floor != 12 {
		t.Fatalf("GetUnit wrong result: %#v", got)
	}

	got.Price = decimal.RequireFromString("460000")
	got.Facing = "South-West"
	if err := repo.UpdateUnit(ctx, got); err != nil {
		t.Fatalf("UpdateUnit error: %v", err)
	}
	again, _ := repo.GetUnit(ctx, u.ID)
	if !again.Price.Equal(decimal.NewFromInt(460000)) || again.Facing != "South-West" {
		t.Fatalf("update not persisted: %#v", again)
	}

	// any transition is allowed, including back from Sold
	for _, s := range []models.UnitStatus{models.UnitStatusSold, models.UnitStatusAvailable, models.UnitStatusReserved} {
		if err := repo.SetUnitStatus(ctx, u.ID, s); err != nil {
			t.Fatalf("SetUnitStatus(%s) error: %v", s, err)
		}
		cur, _ := repo.GetUnit(ctx, u.ID)
		if cur.Status != s {
			t.Fatalf("status = %s, want %s", cur.Status, s)
		}
	}
	if err := repo.SetUnitStatus(ctx, 9999, models.UnitStatusSold); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown unit, got %v", err)
	}

	byBuilding, err := repo.ListUnitsByBuilding(ctx, b.ID)
	if err != nil || len(byBuilding) != 1 {
		t.Fatalf("ListUnitsByBuilding = %d, %v", len(byBuilding), err)
	}

	if err := repo.DeleteUnit(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUnit error: %v", err)
	}
	if err := repo.DeleteUnit(ctx, u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUnitRejectsUnknownEnum(t *testing.T) {
	repo := setupRepo(t)
	c := mustComplex(t, repo)
	b := mustBuilding(t, repo, c.ID, "Tara")

	u := &models.Unit{BuildingID: b.ID, UnitNumber: "X-1", Type: models.UnitType("Villa")}
	if _, err := repo.CreateUnit(context.Background(), u); err == nil {
		t.Fatalf("expected error for unknown type")
	}

	ok := mustUnit(t, repo, models.Unit{BuildingID: b.ID, UnitNumber: "X-2"})
	if err := repo.SetUnitStatus(context.Background(), ok.ID, models.UnitStatus("sold")); err == nil {
		t.Fatalf("expected error for non-canonical status")
	}
	ok.Type = models.UnitType("Castle")
	if err := repo.UpdateUnit(context.Background(), ok); err == nil {
		t.Fatalf("expected error updating to unknown type")
	}
	q := &models.Inquiry{UnitID: ok.ID, FullName: "A", Email: "a@example.com", Phone: "1"}
	if _, err := repo.CreateInquiry(context.Background(), q); err != nil {
		t.Fatalf("CreateInquiry error: %v", err)
	}
	if err := repo.SetInquiryStatus(context.Background(), q.ID, models.InquiryStatus("Closed")); err == nil {
		t.Fatalf("expected error for unknown inquiry status")
	}
}

func TestInquiryLifecycle(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustComplex(t, repo)
	b := mustBuilding(t, repo, c.ID, "Tara")
	u := mustUnit(t, repo, models.Unit{BuildingID: b.ID})

	source := "website"
	q := &models.Inquiry{UnitID: u.ID, FullName: "Arta Krasniqi", Email: "arta@example.com", Phone: "+383 44 000 000", Source: &source}
	if _, err := repo.CreateInquiry(ctx, q); err != nil {
		t.Fatalf("CreateInquiry error: %v", err)
	}
	if q.Status != models.InquiryStatusNew {
		t.Fatalf("expected default status New, got %q", q.Status)
	}

	noSource := &models.Inquiry{UnitID: u.ID, FullName: "Drin", Email: "drin@example.com", Phone: "1"}
	if _, err := repo.CreateInquiry(ctx, noSource); err != nil {
		t.Fatalf("CreateInquiry error: %v", err)
	}

	got, err := repo.GetInquiry(ctx, q.ID)
	if err != nil || got == nil {
		t.Fatalf("GetInquiry = %#v, %v", got, err)
	}
	if got.Source == nil || *got.Source != "website" {
		t.Fatalf("source round trip: %#v", got.Source)
	}
	if got2, _ := repo.GetInquiry(ctx, noSource.ID); got2.Source != nil {
		t.Fatalf("expected nil source, got %q", *got2.Source)
	}

	if err := repo.SetInquiryStatus(ctx, q.ID, models.InquiryStatusContacted); err != nil {
		t.Fatalf("SetInquiryStatus error: %v", err)
	}
	got, _ = repo.GetInquiry(ctx, q.ID)
	if got.Status != models.InquiryStatusContacted {
		t.Fatalf("status = %s, want Contacted", got.Status)
	}
	if err := repo.SetInquiryStatus(ctx, 9999, models.InquiryStatusLost); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := repo.ListInquiries(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListInquiries = %d, %v", len(list), err)
	}
}

func TestDeleteComplexCascades(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustComplex(t, repo)
	b := mustBuilding(t, repo, c.ID, "Tara")
	u := mustUnit(t, repo, models.Unit{BuildingID: b.ID})
	q := &models.Inquiry{UnitID: u.ID, FullName: "A", Email: "a@example.com", Phone: "1"}
	if _, err := repo.CreateInquiry(ctx, q); err != nil {
		t.Fatalf("CreateInquiry error: %v", err)
	}

	if err := repo.DeleteComplex(ctx, c.ID); err != nil {
		t.Fatalf("DeleteComplex error: %v", err)
	}

	if got, _ := repo.GetBuilding(ctx, b.ID); got != nil {
		t.Fatalf("building survived cascade")
	}
	if got, _ := repo.GetUnit(ctx, u.ID); got != nil {
		t.Fatalf("unit survived cascade")
	}
	if got, _ := repo.GetInquiry(ctx, q.ID); got != nil {
		t.Fatalf("inquiry survived cascade")
	}
}

func TestDeleteBuildingCascades(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	c := mustComplex(t, repo)
	tara := mustBuilding(t, repo, c.ID, "Tara")
	tiani := mustBuilding(t, repo, c.ID, "Tiani")
	u1 := mustUnit(t, repo, models.Unit{BuildingID: tara.ID, UnitNumber: "PH-01"})
	u2 := mustUnit(t, repo, models.Unit{BuildingID: tara.ID, UnitNumber: "A-05"})
	other := mustUnit(t, repo, models.Unit{BuildingID: tiani.ID, UnitNumber: "L-01"})

	var inquiries []int64
	for _, unitID := range []int64{u1.ID, u2.ID, other.ID} {
		q := &models.Inquiry{UnitID: unitID, FullName: "A", Email: "a@example.com", Phone: "1", Status: models.InquiryStatusNew}
		if _, err := repo.CreateInquiry(ctx, q); err != nil {
			t.Fatalf("CreateInquiry error: %v", err)
		}
		inquiries = append(inquiries, q.ID)
	}

	if err := repo.DeleteBuilding(ctx, tara.ID); err != nil {
		t.Fatalf("DeleteBuilding error: %v", err)
	}

	units, err := repo.ListUnitsByBuilding(ctx, tara.ID)
	if err != nil {
		t.Fatalf("ListUnitsByBuilding error: %v", err)
	}
	if len(units) != 0 {
		t.Fatalf("expected no units left in deleted building, got %d", len(units))
	}
	for _, id := range inquiries[:2] {
		if got, _ := repo.GetInquiry(ctx, id); got != nil {
			t.Fatalf("inquiry %d survived building cascade", id)
		}
	}

	// the sibling building is untouched
	if got, _ := repo.GetUnit(ctx, other.ID); got == nil {
		t.Fatalf("unit of another building was removed")
	}
	remaining, err := repo.ListInquiries(ctx)
	if err != nil {
		t.Fatalf("ListInquiries error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != inquiries[2] {
		t.Fatalf("expected only the other building's inquiry, got %+v", remaining)
	}
}
