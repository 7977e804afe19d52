package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
	"github.com/shopspring/decimal"
)

var studentCols = []string{
	"id", "roll_no", "name", "mobile", "aadhaar_enc", "aadhaar_hmac", "shift_id", "assigned_seat",
	"admission_date", "monthly_fee", "is_active", "deactivated_at", "created_at", "updated_at",
}

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestListStudentsAttachesFeeHistory(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	admission := time.Date(2025, 7, 29, 0, 0, 0, 0, time.UTC)
	deactivated := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM library.students").
		WillReturnRows(sqlmock.NewRows(studentCols).
			AddRow("s1", "R1", "Suraj", "9876543210", "enc", "hmac", "shift1", "hall1-4",
				admission, "500.00", true, nil, now, now).
			AddRow("s2", "R2", "Meera", "9876543211", nil, nil, nil, nil,
				admission, "300.00", false, deactivated, now, now))
	mock.ExpectQuery("SELECT student_id, changed_at, fee FROM library.fee_changes").
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "changed_at", "fee"}).
			AddRow("s1", time.Date(2025, 10, 22, 13, 10, 0, 0, time.UTC), "400.00").
			AddRow("s1", time.Date(2025, 10, 22, 13, 11, 0, 0, time.UTC), "1050.00").
			AddRow("gone", time.Date(2025, 10, 22, 13, 11, 0, 0, time.UTC), "1.00"))

	students, err := repo.ListStudents(ctx)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	s1, s2 := students[0], students[1]
	if len(s1.FeeChanges) != 2 || !s1.FeeChanges[1].Fee.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("s1 fee changes = %+v", s1.FeeChanges)
	}
	if s1.AssignedSeat != "hall1-4" || s1.ShiftID != "shift1" || s1.DeactivatedAt != nil {
		t.Errorf("s1 = %+v", s1)
	}
	if !s1.MonthlyFee.Equal(decimal.NewFromInt(500)) {
		t.Errorf("s1 fee = %s", s1.MonthlyFee)
	}
	if s2.IsActive || s2.DeactivatedAt == nil || !s2.DeactivatedAt.Equal(deactivated) || s2.AssignedSeat != "" {
		t.Errorf("s2 = %+v", s2)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetStudentNotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT (.+) FROM library.students").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(studentCols))

	_, err := repo.GetStudent(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestChangeMonthlyFee(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2025, 10, 22, 13, 10, 0, 0, time.UTC)
	fee := decimal.NewFromInt(400)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE library.students SET monthly_fee").
		WithArgs("s1", fee).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO library.fee_changes").
		WithArgs(sqlmock.AnyArg(), "s1", at, fee).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ChangeMonthlyFee(context.Background(), "s1", fee, at); err != nil {
		t.Fatalf("ChangeMonthlyFee: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestChangeMonthlyFeeUnknownStudent(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE library.students SET monthly_fee").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ChangeMonthlyFee(context.Background(), "nobody", decimal.NewFromInt(400), time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeactivateStudentReleasesSeat(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE library.students SET is_active = FALSE, deactivated_at = \\$2, assigned_seat = NULL").
		WithArgs("s1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeactivateStudent(context.Background(), "s1", at); err != nil {
		t.Fatalf("DeactivateStudent: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListPaymentsByStudent(t *testing.T) {
	repo, mock := newMock(t)
	paid := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM library.payments WHERE student_id = \\$1").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "amount", "discount", "paid_at", "note", "created_at"}).
			AddRow("p1", "s1", "450.00", "50.00", paid, "", paid))

	payments, err := repo.ListPaymentsByStudent(context.Background(), "s1")
	if err != nil {
		t.Fatalf("ListPaymentsByStudent: %v", err)
	}
	if len(payments) != 1 || !payments[0].Credit().Equal(decimal.NewFromInt(500)) {
		t.Errorf("payments = %+v", payments)
	}
}

func TestCreatePaymentAssignsID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO library.payments").
		WithArgs(sqlmock.AnyArg(), "s1", decimal.NewFromInt(500), decimal.Zero, sqlmock.AnyArg(), "cash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	payment := &models.Payment{
		StudentID: "s1",
		Amount:    decimal.NewFromInt(500),
		Discount:  decimal.Zero,
		Date:      now,
		Note:      "cash",
	}
	if err := repo.CreatePayment(context.Background(), payment); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if payment.ID == "" || !payment.CreatedAt.Equal(now) {
		t.Errorf("payment = %+v", payment)
	}
}

func TestEnsureSchema(t *testing.T) {
	repo, mock := newMock(t)
	for range schema {
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUpdatePayment(t *testing.T) {
	repo, mock := newMock(t)
	paid := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE library.payments SET amount = \\$2, discount = \\$3, paid_at = \\$4, note = \\$5").
		WithArgs("p1", sqlmock.AnyArg(), sqlmock.AnyArg(), paid, "corrected").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE library.payments").
		WithArgs("gone", sqlmock.AnyArg(), sqlmock.AnyArg(), paid, "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := &models.Payment{ID: "p1", Amount: decimal.NewFromInt(300), Date: paid, Note: "corrected"}
	if err := repo.UpdatePayment(context.Background(), p); err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}
	err := repo.UpdatePayment(context.Background(), &models.Payment{ID: "gone", Date: paid})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetAndDeletePayment(t *testing.T) {
	repo, mock := newMock(t)
	paid := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM library.payments WHERE id = \\$1").
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "amount", "discount", "paid_at", "note", "created_at"}).
			AddRow("p1", "s1", "0.00", "500.00", paid, "Fee waived", paid))
	mock.ExpectQuery("SELECT (.+) FROM library.payments WHERE id = \\$1").
		WithArgs("gone").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "amount", "discount", "paid_at", "note", "created_at"}))
	mock.ExpectExec("DELETE FROM library.payments WHERE id = \\$1").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM library.payments WHERE id = \\$1").
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	p, err := repo.GetPayment(context.Background(), "p1")
	if err != nil {
		t.Fatalf("GetPayment: %v", err)
	}
	if p.StudentID != "s1" || !p.Credit().Equal(decimal.NewFromInt(500)) {
		t.Errorf("payment = %+v", p)
	}
	if _, err := repo.GetPayment(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing payment: err = %v", err)
	}
	if err := repo.DeletePayment(context.Background(), "p1"); err != nil {
		t.Fatalf("DeletePayment: %v", err)
	}
	if err := repo.DeletePayment(context.Background(), "p1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAssignAndReleaseSeat(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("UPDATE library.students SET assigned_seat = \\$2").
		WithArgs("s1", "hall1-7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE library.students SET assigned_seat = NULL").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE library.students SET assigned_seat = NULL").
		WithArgs("nobody").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.AssignSeat(context.Background(), "s1", "hall1-7"); err != nil {
		t.Fatalf("AssignSeat: %v", err)
	}
	if err := repo.ReleaseSeat(context.Background(), "s1"); err != nil {
		t.Fatalf("ReleaseSeat: %v", err)
	}
	if err := repo.ReleaseSeat(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown student: err = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
