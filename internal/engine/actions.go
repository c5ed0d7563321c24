package engine

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/tatianab/student-sim/internal/models"
)

// Interaction is a way of spending time with an NPC.
type Interaction string

const (
	InteractChat Interaction = "chat"
	InteractGift Interaction = "gift"
	InteractDate Interaction = "date"
)

// StartGame begins a new run for profile, replacing whatever state the store
// held. Buff ids name legacy bonuses to apply on top of the starting state;
// unknown ids are skipped. It is a no-op for an unknown degree or major.
func (s *Store) StartGame(profile models.Profile, buffs ...string) bool {
	return s.update("start_game", func(tx *txn) bool {
		deg, ok := tx.t.Degree(profile.Degree)
		if !ok {
			return false
		}
		major, ok := tx.t.Major(profile.Major)
		if !ok {
			return false
		}

		st := fresh(tx.t)
		st.RunID = tx.id()
		st.Phase = models.PhaseStudent
		st.Profile = profile
		st.Stats.Age = deg.InitialAge
		st.Visa = models.VisaStatus{
			Subclass:   models.Visa500,
			ExpiryDays: deg.DurationYears*365 + tx.bal.VisaGraceDays,
		}
		tx.st = st

		tx.adjust(major.Modifiers)
		if m := tx.bal.BackgroundMoney[profile.Background]; m != 0 {
			tx.adjust(models.StatDeltas{models.StatMoney: m})
		}

		var applied []string
		for _, id := range buffs {
			b, ok := tx.t.Buff(id)
			if !ok {
				tx.log.WithField("buff", id).Warn("Skipping unknown buff")
				continue
			}
			tx.adjust(b.Stats)
			if b.Relations != 0 {
				for npc := range st.NPCRelations {
					tx.relate(npc, b.Relations)
				}
			}
			applied = append(applied, id)
		}

		tx.addLog("Welcome to Sydney, %s. Your %s starts now.", profile.Name, deg.Label)
		tx.emit(GameStarted{RunID: st.RunID, Profile: profile, Buffs: applied})
		tx.log.WithFields(logrus.Fields{
			"run":    st.RunID,
			"degree": profile.Degree,
			"major":  profile.Major,
		}).Info("Run started")
		return true
	})
}

// ResetGame discards the run and returns to the intro phase.
func (s *Store) ResetGame() {
	s.update("reset_game", func(tx *txn) bool {
		tx.st = fresh(tx.t)
		tx.emit(GameReset{})
		return true
	})
}

// UseActionPoints spends n action points. It reports false and changes
// nothing when fewer than n points remain.
func (s *Store) UseActionPoints(n int) bool {
	return s.update("use_action_points", func(tx *txn) bool {
		if n < 0 || n > tx.st.Clock.ActionPoints {
			return false
		}
		tx.st.Clock.ActionPoints -= n
		return true
	})
}

// UpdateStats applies a batch of deltas during a run.
func (s *Store) UpdateStats(d models.StatDeltas) bool {
	return s.update("update_stats", func(tx *txn) bool {
		if !tx.playing() {
			return false
		}
		tx.updateStats(d)
		return true
	})
}

// ApplyVisa grants a visa subclass with its standard validity.
func (s *Store) ApplyVisa(sc models.VisaSubclass) bool {
	return s.update("apply_visa", func(tx *txn) bool {
		if !tx.playing() {
			return false
		}
		if _, ok := tx.bal.VisaValidity[sc]; !ok {
			return false
		}
		tx.applyVisa(sc)
		return true
	})
}

func (tx *txn) playing() bool {
	return tx.st.Phase.Active() && !tx.st.GameOver
}

func (tx *txn) applyVisa(sc models.VisaSubclass) {
	from := tx.st.Visa.Subclass
	tx.st.Visa = models.VisaStatus{Subclass: sc, ExpiryDays: tx.bal.VisaValidity[sc]}

	if !tx.st.GameOver {
		switch sc {
		case models.Visa485:
			tx.st.Phase = models.PhaseGraduate
		case models.Visa500:
			tx.st.Phase = models.PhaseStudent
			tx.st.Clock.QuartersStudied = 0
		case models.Visa189, models.Visa190:
			tx.st.Phase = models.PhasePRGranted
		}
	}

	tx.addLog("Visa granted: %s", sc)
	tx.emit(VisaChanged{From: from, To: sc})
}

// SetHousing moves to another housing tier.
func (s *Store) SetHousing(id string) bool {
	return s.update("set_housing", func(tx *txn) bool {
		h, ok := tx.t.Housing(id)
		if !ok || !tx.playing() || tx.st.Housing == id {
			return false
		}
		cost := models.Cost{AP: tx.bal.Moves.HousingAP}
		if !tx.affordable(cost) {
			return false
		}
		tx.pay(cost)
		tx.st.Housing = id
		tx.addLog("Moved into a %s.", h.Label)
		return true
	})
}

// MoveRegion relocates to another region.
func (s *Store) MoveRegion(id string) bool {
	return s.update("move_region", func(tx *txn) bool {
		r, ok := tx.t.Region(id)
		if !ok || !tx.playing() || tx.st.Region == id {
			return false
		}
		m := tx.bal.Moves
		cost := models.Cost{AP: m.RegionAP, Money: m.RegionMoney, Sanity: -m.RegionSanity}
		if !tx.affordable(cost) {
			return false
		}
		tx.pay(cost)
		tx.st.Region = id
		tx.addLog("Relocated to %s.", r.Label)
		return true
	})
}

// BuyAsset purchases a durable asset once.
func (s *Store) BuyAsset(id string) bool {
	return s.update("buy_asset", func(tx *txn) bool {
		a, ok := tx.t.Asset(id)
		if !ok || !tx.playing() || tx.st.HasAsset(id) {
			return false
		}
		cost := models.Cost{Money: a.Price}
		if !tx.affordable(cost) {
			return false
		}
		tx.pay(cost)
		tx.st.Assets = append(tx.st.Assets, id)
		tx.updateStats(a.Effects)
		tx.addLog("Bought a %s.", a.Label)
		return true
	})
}

// InteractWithNPC spends time with an NPC.
func (s *Store) InteractWithNPC(npc string, kind Interaction) bool {
	return s.update("interact", func(tx *txn) bool {
		n, ok := tx.t.NPC(npc)
		if !ok || !tx.playing() {
			return false
		}
		in := tx.bal.Interactions

		var (
			cost   models.Cost
			rel    int
			sanity int
		)
		switch kind {
		case InteractChat:
			cost, rel, sanity = models.Cost{AP: in.ChatAP}, in.ChatRel, in.ChatSanity
		case InteractGift:
			cost, rel = models.Cost{Money: in.GiftMoney}, in.GiftRel
		case InteractDate:
			cost, rel, sanity = models.Cost{AP: in.DateAP, Money: in.DateMoney}, in.DateRel, in.DateSanity
		default:
			return false
		}
		if !tx.affordable(cost) {
			return false
		}

		tx.pay(cost)
		v := tx.relate(npc, rel)
		if sanity != 0 {
			tx.updateStats(models.StatDeltas{models.StatSanity: sanity})
		}
		tx.addLog("%s with %s.", interactionVerb(kind), n.Name)
		tx.emit(NPCInteracted{NPC: npc, Interaction: kind, Relation: v})
		return true
	})
}

func interactionVerb(k Interaction) string {
	switch k {
	case InteractGift:
		return "Shared a small treat"
	case InteractDate:
		return "Went on a date"
	}
	return "Had a chat"
}

// BuyItem buys an item. Consumables are used at once and limited per
// quarter; gifts go to the inventory.
func (s *Store) BuyItem(id string) bool {
	return s.update("buy_item", func(tx *txn) bool {
		it, ok := tx.t.Item(id)
		if !ok || !tx.playing() {
			return false
		}
		cost := models.Cost{Money: it.Price}
		if !tx.affordable(cost) {
			return false
		}
		if it.Category == models.ItemConsumable && tx.st.CoffeeConsumed >= tx.bal.CoffeeLimit {
			return false
		}

		tx.pay(cost)
		switch it.Category {
		case models.ItemConsumable:
			tx.st.CoffeeConsumed++
			c := &tx.st.Clock
			c.ActionPoints = min(c.ActionPoints+it.AP, c.MaxActionPoints)
			tx.updateStats(it.Effects)
			tx.addLog("Had a %s.", it.Name)
		default:
			tx.st.Inventory = append(tx.st.Inventory, id)
			tx.addLog("Bought %s.", it.Name)
		}
		tx.emit(ItemBought{Item: id})
		return true
	})
}

// GiveGift gives an inventory item to an NPC. Items matching the NPC's
// likes earn extra relationship; dislikes cost some.
func (s *Store) GiveGift(npc, item string) bool {
	return s.update("give_gift", func(tx *txn) bool {
		n, ok := tx.t.NPC(npc)
		if !ok || !tx.playing() {
			return false
		}
		it, ok := tx.t.Item(item)
		if !ok {
			return false
		}
		idx := slices.Index(tx.st.Inventory, item)
		if idx < 0 {
			return false
		}
		tx.st.Inventory = slices.Delete(tx.st.Inventory, idx, idx+1)

		in := tx.bal.Interactions
		delta := in.ItemGiftRel
		for _, tag := range it.Tags {
			if slices.Contains(n.Likes, tag) {
				delta += in.LikedTagRel
			}
			if slices.Contains(n.Dislikes, tag) {
				delta += in.DislikeTagRel
			}
		}
		v := tx.relate(npc, delta)

		tx.addLog("Gave %s to %s.", it.Name, n.Name)
		tx.emit(ItemGiven{NPC: npc, Item: item})
		tx.emit(NPCInteracted{NPC: npc, Interaction: InteractGift, Relation: v})
		return true
	})
}

// WeekendActivity spends the quarter's weekend. Only one per quarter.
func (s *Store) WeekendActivity(id string) bool {
	return s.update("weekend", func(tx *txn) bool {
		w, ok := tx.t.Weekend(id)
		if !ok || !tx.playing() || tx.st.WeekendTaken {
			return false
		}
		cost := models.Cost{Money: w.Money}
		if !tx.affordable(cost) {
			return false
		}
		tx.pay(cost)
		tx.updateStats(w.Effects)
		tx.st.WeekendTaken = true
		tx.addLog("Weekend: %s.", w.Title)
		return true
	})
}

// Perform runs a player action from the action table. The action is a no-op
// while an event is pending, outside its phases, without its required asset
// or when its cost cannot be paid.
func (s *Store) Perform(id string) bool {
	return s.update("perform", func(tx *txn) bool {
		a, ok := tx.t.Action(id)
		if !ok || !tx.playing() || tx.st.CurrentEvent != nil {
			return false
		}
		if len(a.Phases) > 0 && !slices.Contains(a.Phases, tx.st.Phase) {
			return false
		}
		if a.RequiresAsset != "" && !tx.st.HasAsset(a.RequiresAsset) {
			return false
		}
		if !tx.affordable(a.Cost) {
			return false
		}

		tx.pay(a.Cost)
		effects := a.Effects.Clone()
		if a.MoneyRoll > 0 {
			effects = effects.Merge(models.StatDeltas{models.StatMoney: tx.rng.IntN(a.MoneyRoll)})
		}
		tx.updateStats(effects)
		tx.addLog("%s.", a.Label)
		tx.emit(ActionPerformed{Action: id})

		if len(a.Rolls) > 0 && !tx.st.GameOver {
			roll := tx.rng.Float64()
			for _, r := range a.Rolls {
				if roll >= r.Below {
					continue
				}
				if ev, ok := tx.t.Event(r.Event); ok {
					tx.setEvent(ev, false)
				}
				break
			}
		}
		return true
	})
}
