package engine

import (
	"github.com/tatianab/student-sim/internal/content"
	"github.com/tatianab/student-sim/internal/models"
)

// Classify maps the state to at most one ending. Failure endings are always
// considered. Success endings are only considered when success is set; the
// store enables them once the player has left the student phase.
//
// Priority: dropout, forced departure, entrepreneur, PR, academic, global
// talent.
func Classify(st *models.Snapshot, b *content.Balance, success bool) (models.EndingID, bool) {
	th := b.Thresholds
	s := st.Stats

	if s.WAM < th.DropoutWAM || s.Sanity <= 0 {
		return models.EndingDropout, true
	}
	if st.Visa.ExpiryDays <= 0 && s.PRScore < th.PRScore && !b.Qualifies(st.Visa.Subclass) {
		return models.EndingForcedDeparture, true
	}
	if !success {
		return "", false
	}

	switch {
	case s.Money >= th.EntrepreneurMoney && s.Network >= th.EntrepreneurNetwork:
		return models.EndingEntrepreneur, true
	case s.PRScore >= th.PRScore:
		return models.EndingPRGranted, true
	case s.WAM >= th.AcademicWAM && s.Intelligence >= th.AcademicIntelligence:
		return models.EndingAcademic, true
	case s.Money >= th.GlobalTalentMoney && s.WAM >= th.GlobalTalentWAM:
		return models.EndingGlobalTalent, true
	}
	return "", false
}
