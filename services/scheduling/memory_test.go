package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	schedulingRepo "bookify/database/repository/scheduling"
	slotRepo "bookify/database/repository/slot"
	"bookify/models"
)

// memStore is a mutex-guarded in-memory stand-in for the Mongo repositories.
// Every transactional method validates first and mutates after, under one
// lock, so the fakes keep the same atomicity the real transactions provide.
type memStore struct {
	mu        sync.Mutex
	slots     map[string]*models.Slot
	appts     map[string]*models.Appointment
	resources map[string]*models.Resource
}

func newMemStore() *memStore {
	return &memStore{
		slots:     make(map[string]*models.Slot),
		appts:     make(map[string]*models.Appointment),
		resources: make(map[string]*models.Resource),
	}
}

func (s *memStore) putSlot(slot models.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := slot
	s.slots[slot.ID] = &cp
}

func (s *memStore) putResource(res models.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := res
	s.resources[res.ID] = &cp
}

func (s *memStore) slotByID(id string) (models.Slot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	if !ok {
		return models.Slot{}, false
	}
	return *slot, true
}

func (s *memStore) slotCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}

func (s *memStore) apptByID(id string) (models.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.appts[id]
	if !ok {
		return models.Appointment{}, false
	}
	return *appt, true
}

func (s *memStore) confirmedForSlot(slotID string) []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, a := range s.appts {
		if a.SlotID == slotID && a.Status == models.AppointmentStatusConfirmed && !a.Deleted {
			out = append(out, *a)
		}
	}
	return out
}

// --- SlotRepository ---

type memSlotRepo struct{ s *memStore }

func (r *memSlotRepo) Create(_ context.Context, slot *models.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	cp := *slot
	r.s.slots[slot.ID] = &cp
	return nil
}

func (r *memSlotRepo) GetByID(_ context.Context, slotID string) (*models.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[slotID]
	if !ok || slot.Deleted {
		return nil, mongo.ErrNoDocuments
	}
	cp := *slot
	return &cp, nil
}

func (r *memSlotRepo) FindOverlapping(_ context.Context, q slotRepo.OverlapQuery) ([]models.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return findOverlappingLocked(r.s, q), nil
}

func findOverlappingLocked(s *memStore, q slotRepo.OverlapQuery) []models.Slot {
	var out []models.Slot
	for _, slot := range s.slots {
		if slot.Deleted || slot.ID == q.ExcludeSlotID {
			continue
		}
		if !intervalsOverlap(slot.StartTime, slot.EndTime, q.Start, q.End) {
			continue
		}
		staffHit := q.StaffID != "" && slot.StaffID == q.StaffID
		resourceHit := q.ResourceID != "" && slot.ResourceID != "" && slot.ResourceID == q.ResourceID
		if staffHit || resourceHit {
			out = append(out, *slot)
		}
	}
	return out
}

func (r *memSlotRepo) MarkBooked(_ context.Context, slotID string, expectedVersion int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return markBookedLocked(r.s, slotID, expectedVersion)
}

func markBookedLocked(s *memStore, slotID string, expectedVersion int) error {
	slot, ok := s.slots[slotID]
	if !ok || slot.Deleted || slot.Status != models.SlotStatusAvailable {
		return mongo.ErrNoDocuments
	}
	if expectedVersion > 0 && slot.Version != expectedVersion {
		return mongo.ErrNoDocuments
	}
	slot.Status = models.SlotStatusBooked
	slot.Version++
	slot.UpdatedAt = time.Now()
	return nil
}

func (r *memSlotRepo) MarkAvailable(_ context.Context, slotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	markAvailableLocked(r.s, slotID)
	return nil
}

func markAvailableLocked(s *memStore, slotID string) {
	if slot, ok := s.slots[slotID]; ok && !slot.Deleted {
		slot.Status = models.SlotStatusAvailable
		slot.Version++
		slot.UpdatedAt = time.Now()
	}
}

func (r *memSlotRepo) SoftDelete(_ context.Context, slotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[slotID]
	if !ok || slot.Deleted || slot.Status == models.SlotStatusBooked {
		return mongo.ErrNoDocuments
	}
	slot.Deleted = true
	slot.Version++
	return nil
}

func (r *memSlotRepo) SumBookedDurationForDay(_ context.Context, staffID string, dayStart, dayEnd time.Time) (time.Duration, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total time.Duration
	for _, slot := range r.s.slots {
		if slot.Deleted || slot.StaffID != staffID || slot.Status != models.SlotStatusBooked {
			continue
		}
		if slot.StartTime.Before(dayStart) || !slot.StartTime.Before(dayEnd) {
			continue
		}
		total += slot.Duration()
	}
	return total, nil
}

func (r *memSlotRepo) FindAlternatives(_ context.Context, staffID, resourceID, excludeSlotID string, notBefore time.Time, limit int) ([]models.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Slot
	for _, slot := range r.s.slots {
		if slot.Deleted || slot.ID == excludeSlotID || slot.Status != models.SlotStatusAvailable {
			continue
		}
		if slot.StartTime.Before(notBefore) {
			continue
		}
		staffHit := slot.StaffID == staffID
		resourceHit := resourceID != "" && slot.ResourceID == resourceID
		if !staffHit && !resourceHit {
			continue
		}
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSlotRepo) ListByStaffAndRange(_ context.Context, staffID string, from, to time.Time) ([]models.Slot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Slot
	for _, slot := range r.s.slots {
		if slot.Deleted || slot.StaffID != staffID {
			continue
		}
		if slot.StartTime.Before(from) || !slot.StartTime.Before(to) {
			continue
		}
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *memSlotRepo) EnsureIndexes() error { return nil }

// --- AppointmentRepository ---

type memAppointmentRepo struct{ s *memStore }

func (r *memAppointmentRepo) GetByID(_ context.Context, appointmentID string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appt, ok := r.s.appts[appointmentID]
	if !ok || appt.Deleted {
		return nil, mongo.ErrNoDocuments
	}
	cp := *appt
	return &cp, nil
}

func (r *memAppointmentRepo) ListByClient(_ context.Context, clientID string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.s.appts {
		if a.ClientID == clientID && !a.Deleted {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memAppointmentRepo) GetConfirmedForSlot(_ context.Context, slotID string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appts {
		if a.SlotID == slotID && a.Status == models.AppointmentStatusConfirmed && !a.Deleted {
			cp := *a
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *memAppointmentRepo) EnsureIndexes() error { return nil }

// --- ResourceRepository ---

type memResourceRepo struct{ s *memStore }

func (r *memResourceRepo) GetByID(_ context.Context, resourceID string) (*models.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resources[resourceID]
	if !ok || res.Deleted {
		return nil, mongo.ErrNoDocuments
	}
	cp := *res
	return &cp, nil
}

func (r *memResourceRepo) IncrementUsage(_ context.Context, resourceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if res, ok := r.s.resources[resourceID]; ok {
		res.UsageCount++
	}
	return nil
}

func (r *memResourceRepo) HasPendingMaintenanceIn(_ context.Context, resourceID string, from, to time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resources[resourceID]
	if !ok || res.Deleted {
		return false, nil
	}
	for _, mw := range res.Maintenance {
		if mw.Status != models.MaintenanceStatusPending {
			continue
		}
		if !mw.ScheduledAt.Before(from) && !mw.ScheduledAt.After(to) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memResourceRepo) EnsureIndexes() error { return nil }

// --- SchedulingRepository (transactional unit) ---

type memTxRepo struct{ s *memStore }

func (r *memTxRepo) BookAppointmentTx(_ context.Context, slotID string, expectedVersion int, appt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := markBookedLocked(r.s, slotID, expectedVersion); err != nil {
		return schedulingRepo.ErrSlotUnavailable
	}
	cp := *appt
	r.s.appts[appt.ID] = &cp
	return nil
}

func (r *memTxRepo) CancelAppointmentTx(_ context.Context, appointmentID, slotID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appt, ok := r.s.appts[appointmentID]
	if !ok || appt.Deleted || appt.Status != models.AppointmentStatusConfirmed {
		return schedulingRepo.ErrAppointmentNotLive
	}
	appt.Status = models.AppointmentStatusCancelled
	appt.UpdatedAt = time.Now()
	markAvailableLocked(r.s, slotID)
	return nil
}

func (r *memTxRepo) RescheduleAppointmentTx(_ context.Context, oldAppointmentID, oldSlotID, newSlotID string, newSlotVersion int, newAppt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// Validate everything before mutating anything, mirroring the
	// all-or-nothing transaction.
	oldAppt, ok := r.s.appts[oldAppointmentID]
	if !ok || oldAppt.Deleted || oldAppt.Status != models.AppointmentStatusConfirmed {
		return schedulingRepo.ErrAppointmentNotLive
	}
	newSlot, ok := r.s.slots[newSlotID]
	if !ok || newSlot.Deleted || newSlot.Status != models.SlotStatusAvailable {
		return schedulingRepo.ErrSlotUnavailable
	}
	if newSlotVersion > 0 && newSlot.Version != newSlotVersion {
		return schedulingRepo.ErrSlotUnavailable
	}

	newSlot.Status = models.SlotStatusBooked
	newSlot.Version++
	markAvailableLocked(r.s, oldSlotID)
	oldAppt.Status = models.AppointmentStatusRescheduled
	oldAppt.UpdatedAt = time.Now()
	cp := *newAppt
	r.s.appts[newAppt.ID] = &cp
	return nil
}

func (r *memTxRepo) InsertSlotBatchTx(_ context.Context, slots []models.Slot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, slot := range slots {
		q := slotRepo.OverlapQuery{
			Start:      slot.StartTime,
			End:        slot.EndTime,
			StaffID:    slot.StaffID,
			ResourceID: slot.ResourceID,
		}
		if len(findOverlappingLocked(r.s, q)) > 0 {
			return &schedulingRepo.BatchConflictError{ConflictingStart: slot.StartTime}
		}
	}
	for _, slot := range slots {
		cp := slot
		r.s.slots[slot.ID] = &cp
	}
	return nil
}

// --- helpers ---

func newTestEngine() (*Engine, *memStore) {
	s := newMemStore()
	return &Engine{
		Slots:        &memSlotRepo{s},
		Appointments: &memAppointmentRepo{s},
		Resources:    &memResourceRepo{s},
		Tx:           &memTxRepo{s},
	}, s
}
