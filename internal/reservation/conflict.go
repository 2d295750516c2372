package reservation

import "time"

// Overlaps reports whether two half-open slots [debut, fin) on the same
// day intersect. Back-to-back bookings sharing a boundary do not.
func Overlaps(debutA, finA, debutB, finB time.Time) bool {
	return debutA.Before(finB) && debutB.Before(finA)
}

// ConflictsWith reports whether the candidate slot collides with an
// existing reservation of the same salle on the same date.
func (r *Reservation) ConflictsWith(other *Reservation) bool {
	if r.SalleID != other.SalleID {
		return false
	}
	if !sameDate(r.Date, other.Date) {
		return false
	}
	return Overlaps(r.HeureDebut, r.HeureFin, other.HeureDebut, other.HeureFin)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
