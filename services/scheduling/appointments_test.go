package scheduling

import (
	"context"
	"strings"
	"sync"
	"testing"

	"bookify/models"
)

func seedAvailableSlot(t *testing.T, store *memStore, id, start, end string) {
	t.Helper()
	store.putSlot(models.Slot{
		ID:         id,
		StaffID:    "staff-1",
		ResourceID: "room-1",
		StartTime:  at(t, start),
		EndTime:    at(t, end),
		Status:     models.SlotStatusAvailable,
		Version:    1,
	})
}

func TestCreateAppointmentBooksSlot(t *testing.T) {
	eng, store := newTestEngine()
	seedAvailableSlot(t, store, "slot-1", "10:00", "11:00")
	store.putResource(models.Resource{ID: "room-1", Name: "Room 1", Status: "active"})

	detail, err := eng.CreateAppointment(context.Background(), AppointmentRequest{
		ClientID: "client-1",
		SlotID:   "slot-1",
		Notes:    "first visit",
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if detail.Appointment.Status != models.AppointmentStatusConfirmed {
		t.Errorf("appointment status = %q, want %q", detail.Appointment.Status, models.AppointmentStatusConfirmed)
	}
	if detail.Appointment.Priority != models.PriorityNormal {
		t.Errorf("priority = %q, want %q", detail.Appointment.Priority, models.PriorityNormal)
	}
	if detail.Slot.Status != models.SlotStatusBooked {
		t.Errorf("joined slot status = %q, want %q", detail.Slot.Status, models.SlotStatusBooked)
	}
	if detail.Resource == nil || detail.Resource.ID != "room-1" {
		t.Error("joined resource missing from detail")
	}

	slot, _ := store.slotByID("slot-1")
	if slot.Status != models.SlotStatusBooked {
		t.Errorf("persisted slot status = %q, want %q", slot.Status, models.SlotStatusBooked)
	}
	if slot.Version != 2 {
		t.Errorf("persisted slot version = %d, want 2", slot.Version)
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	eng, store := newTestEngine()
	seedAvailableSlot(t, store, "slot-1", "10:00", "11:00")
	ctx := context.Background()

	if _, err := eng.CreateAppointment(ctx, AppointmentRequest{SlotID: "slot-1"}); !IsValidation(err) {
		t.Errorf("missing client id: expected validation error, got %v", err)
	}
	if _, err := eng.CreateAppointment(ctx, AppointmentRequest{
		ClientID: "client-1", SlotID: "slot-1", Priority: "asap",
	}); !IsValidation(err) {
		t.Errorf("unknown priority: expected validation error, got %v", err)
	}
	if _, err := eng.CreateAppointment(ctx, AppointmentRequest{
		ClientID: "client-1", SlotID: "no-such-slot",
	}); !IsNotFound(err) {
		t.Errorf("missing slot: expected not-found error, got %v", err)
	}
}

func TestCreateAppointmentRejectsBookedSlot(t *testing.T) {
	eng, store := newTestEngine()
	store.putSlot(models.Slot{
		ID:        "slot-1",
		StaffID:   "staff-1",
		StartTime: at(t, "10:00"),
		EndTime:   at(t, "11:00"),
		Status:    models.SlotStatusBooked,
		Version:   2,
	})

	_, err := eng.CreateAppointment(context.Background(), AppointmentRequest{
		ClientID: "client-1",
		SlotID:   "slot-1",
	})
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestConcurrentBookingHasOneWinner(t *testing.T) {
	eng, store := newTestEngine()
	seedAvailableSlot(t, store, "slot-1", "10:00", "11:00")

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.CreateAppointment(context.Background(), AppointmentRequest{
				ClientID: "client-1",
				SlotID:   "slot-1",
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winners = %d, want exactly 1", wins)
	}
	if conflicts != attempts-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, attempts-1)
	}
	if len(store.confirmedForSlot("slot-1")) != 1 {
		t.Error("slot carries more than one confirmed appointment")
	}
}

func TestCancelAppointment(t *testing.T) {
	eng, store := newTestEngine()
	seedAvailableSlot(t, store, "slot-1", "10:00", "11:00")
	ctx := context.Background()

	detail, err := eng.CreateAppointment(ctx, AppointmentRequest{ClientID: "client-1", SlotID: "slot-1"})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if err := eng.CancelAppointment(ctx, detail.Appointment.ID, "client-1", "client"); err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}

	appt, _ := store.apptByID(detail.Appointment.ID)
	if appt.Status != models.AppointmentStatusCancelled {
		t.Errorf("appointment status = %q, want %q", appt.Status, models.AppointmentStatusCancelled)
	}
	slot, _ := store.slotByID("slot-1")
	if slot.Status != models.SlotStatusAvailable {
		t.Errorf("slot status = %q, want %q", slot.Status, models.SlotStatusAvailable)
	}

	if err := eng.CancelAppointment(ctx, detail.Appointment.ID, "client-1", "client"); !IsConflict(err) {
		t.Errorf("cancelling twice: expected conflict error, got %v", err)
	}
	if err := eng.CancelAppointment(ctx, "no-such-appt", "client-1", "client"); !IsNotFound(err) {
		t.Errorf("missing appointment: expected not-found error, got %v", err)
	}
}

func TestListClientAppointments(t *testing.T) {
	eng, store := newTestEngine()
	ctx := context.Background()
	seedAvailableSlot(t, store, "slot-1", "10:00", "11:00")
	seedAvailableSlot(t, store, "slot-2", "12:00", "13:00")

	if _, err := eng.CreateAppointment(ctx, AppointmentRequest{ClientID: "client-1", SlotID: "slot-1"}); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if _, err := eng.CreateAppointment(ctx, AppointmentRequest{ClientID: "client-2", SlotID: "slot-2"}); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	appts, err := eng.ListClientAppointments(ctx, "client-1")
	if err != nil {
		t.Fatalf("ListClientAppointments: %v", err)
	}
	if len(appts) != 1 || appts[0].ClientID != "client-1" {
		t.Errorf("unexpected listing: %+v", appts)
	}

	if _, err := eng.ListClientAppointments(ctx, ""); !IsValidation(err) {
		t.Errorf("missing client id: expected validation error, got %v", err)
	}
}

func TestAppointmentForSlot(t *testing.T) {
	eng, store := newTestEngine()
	ctx := context.Background()
	seedAvailableSlot(t, store, "slot-1", "10:00", "11:00")

	if _, err := eng.AppointmentForSlot(ctx, "slot-1"); !IsNotFound(err) {
		t.Errorf("available slot: expected not-found error, got %v", err)
	}
	if _, err := eng.AppointmentForSlot(ctx, "no-such-slot"); !IsNotFound(err) {
		t.Errorf("missing slot: expected not-found error, got %v", err)
	}

	created, err := eng.CreateAppointment(ctx, AppointmentRequest{ClientID: "client-1", SlotID: "slot-1"})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	detail, err := eng.AppointmentForSlot(ctx, "slot-1")
	if err != nil {
		t.Fatalf("AppointmentForSlot: %v", err)
	}
	if detail.Appointment.ID != created.Appointment.ID {
		t.Errorf("appointment id = %q, want %q", detail.Appointment.ID, created.Appointment.ID)
	}
	if detail.Slot.Status != models.SlotStatusBooked {
		t.Errorf("joined slot status = %q, want %q", detail.Slot.Status, models.SlotStatusBooked)
	}

	if err := eng.CancelAppointment(ctx, created.Appointment.ID, "client-1", "client"); err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}
	if _, err := eng.AppointmentForSlot(ctx, "slot-1"); !IsNotFound(err) {
		t.Errorf("cancelled: expected not-found error, got %v", err)
	}
}

func TestRescheduleAppointment(t *testing.T) {
	eng, store := newTestEngine()
	seedAvailableSlot(t, store, "old-slot", "10:00", "11:00")
	seedAvailableSlot(t, store, "new-slot", "14:00", "15:00")
	ctx := context.Background()

	orig, err := eng.CreateAppointment(ctx, AppointmentRequest{
		ClientID: "client-1",
		SlotID:   "old-slot",
		Priority: models.PriorityUrgent,
		Notes:    "knee pain",
	})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	moved, err := eng.RescheduleAppointment(ctx, orig.Appointment.ID, "new-slot", "staff-1", "staff")
	if err != nil {
		t.Fatalf("RescheduleAppointment: %v", err)
	}

	if moved.Appointment.RescheduledFrom != orig.Appointment.ID {
		t.Errorf("rescheduledFrom = %q, want %q", moved.Appointment.RescheduledFrom, orig.Appointment.ID)
	}
	if moved.Appointment.Priority != models.PriorityUrgent {
		t.Errorf("priority not carried over: %q", moved.Appointment.Priority)
	}
	if !strings.HasPrefix(moved.Appointment.Notes, "[rescheduled from ") {
		t.Errorf("notes missing provenance prefix: %q", moved.Appointment.Notes)
	}
	if !strings.Contains(moved.Appointment.Notes, "knee pain") {
		t.Errorf("original notes dropped: %q", moved.Appointment.Notes)
	}

	oldAppt, _ := store.apptByID(orig.Appointment.ID)
	if oldAppt.Status != models.AppointmentStatusRescheduled {
		t.Errorf("old appointment status = %q, want %q", oldAppt.Status, models.AppointmentStatusRescheduled)
	}
	oldSlot, _ := store.slotByID("old-slot")
	if oldSlot.Status != models.SlotStatusAvailable {
		t.Errorf("old slot status = %q, want %q", oldSlot.Status, models.SlotStatusAvailable)
	}
	newSlot, _ := store.slotByID("new-slot")
	if newSlot.Status != models.SlotStatusBooked {
		t.Errorf("new slot status = %q, want %q", newSlot.Status, models.SlotStatusBooked)
	}
}

func TestRescheduleAppointmentGuards(t *testing.T) {
	eng, store := newTestEngine()
	seedAvailableSlot(t, store, "old-slot", "10:00", "11:00")
	ctx := context.Background()

	orig, err := eng.CreateAppointment(ctx, AppointmentRequest{ClientID: "client-1", SlotID: "old-slot"})
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if _, err := eng.RescheduleAppointment(ctx, orig.Appointment.ID, "old-slot", "", ""); !IsValidation(err) {
		t.Errorf("same slot: expected validation error, got %v", err)
	}

	store.putSlot(models.Slot{
		ID:        "taken-slot",
		StaffID:   "staff-2",
		StartTime: at(t, "14:00"),
		EndTime:   at(t, "15:00"),
		Status:    models.SlotStatusBooked,
		Version:   2,
	})
	if _, err := eng.RescheduleAppointment(ctx, orig.Appointment.ID, "taken-slot", "", ""); !IsConflict(err) {
		t.Errorf("booked target: expected conflict error, got %v", err)
	}

	// The failed attempts must leave the original booking untouched.
	appt, _ := store.apptByID(orig.Appointment.ID)
	if appt.Status != models.AppointmentStatusConfirmed {
		t.Errorf("original appointment status = %q, want %q", appt.Status, models.AppointmentStatusConfirmed)
	}
	slot, _ := store.slotByID("old-slot")
	if slot.Status != models.SlotStatusBooked {
		t.Errorf("original slot status = %q, want %q", slot.Status, models.SlotStatusBooked)
	}
}
