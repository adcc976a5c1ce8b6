package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	"magictrail.dev/internal/sim/rhythm"
	"magictrail.dev/internal/sim/trail"
)

const frame = 50 * time.Millisecond

// autopilot plays a run with a fixed, cautious policy: keep food stocked,
// camp when a companion gets weak, take the ferry when it can be paid for.
// Out of food it shops by the roadside if it can and forages otherwise.
type autopilot struct {
	handled map[int]bool
	camped  int
	onTick  func(trail.TickResult)
}

func newAutopilot(onTick func(trail.TickResult)) *autopilot {
	return &autopilot{handled: map[int]bool{}, onTick: onTick}
}

// step performs one decision. It reports done once the run is over.
func (a *autopilot) step(g *trail.Game) (bool, error) {
	var err error
	switch g.Mode() {
	case trail.ModeShop:
		a.stock(g)
		err = g.Continue()
	case trail.ModeLandmark:
		err = a.landmark(g)
	case trail.ModeEvent:
		err = resolve(g)
	case trail.ModeTravel:
		err = a.travel(g)
	case trail.ModeRest:
		err = a.rest(g)
	case trail.ModeChallenge:
		err = g.AbortChallenge()
	default:
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", g.Mode(), err)
	}
	if cause, ended := g.RunOver(); ended && g.Mode() != trail.ModeGameOver {
		g.EndRun(cause)
	}
	return false, nil
}

func (a *autopilot) stock(g *trail.Game) {
	if g.Resource(trail.ResFood) < 250 {
		packs := min(15, g.Resource(trail.ResGold)/10)
		if packs == 0 && g.Resource(trail.ResFood) <= 0 {
			packs = min(1, g.Resource(trail.ResGold)/5)
		}
		if packs > 0 {
			_ = g.Buy(trail.ResFood, packs)
		}
	}
	if g.Resource(trail.ResMedkits) == 0 {
		_ = g.Buy("first_aid_kit", 1)
	}
	if g.Resource(trail.ResWheels) == 0 {
		_ = g.Buy("wagon_wheel", 1)
	}
}

func (a *autopilot) landmark(g *trail.Game) error {
	idx := g.Travel().WaypointIndex
	if !a.handled[idx] {
		a.handled[idx] = true
		if _, err := g.LandmarkEvent(); err == nil {
			return nil
		} else if !errors.Is(err, trail.ErrNoLandmarkEvent) {
			return err
		}
	}
	wp := g.CurrentWaypoint()
	if wp.HasRiver {
		option := "ford"
		if g.Resource(trail.ResGold) >= 100 {
			option = "ferry"
		}
		if _, err := g.CrossRiver(option); err != nil && !errors.Is(err, trail.ErrAlreadyCrossed) {
			return err
		}
	}
	if wp.HasShop {
		a.stock(g)
	}
	return g.Continue()
}

func resolve(g *trail.Game) error {
	ev, ok := g.ActiveEvent()
	if !ok {
		return trail.ErrNoActiveEvent
	}
	if len(ev.Choices) == 0 {
		return g.ResolveEvent(-1)
	}
	for i := range ev.Choices {
		if g.CanChoose(i) {
			return g.ResolveEvent(i)
		}
	}
	return fmt.Errorf("%s: no affordable choice", ev.ID)
}

func weakest(g *trail.Game) int {
	low := 100
	for _, m := range g.Party() {
		if m.Alive && m.Kind == trail.KindCompanion && m.Health < low {
			low = m.Health
		}
	}
	return low
}

func (a *autopilot) travel(g *trail.Game) error {
	if weakest(g) < 40 {
		a.camped = 0
		return g.OpenCamp()
	}
	if g.Resource(trail.ResFood) < 60 && g.Travel().Rations != trail.RationsMeager {
		if err := g.SetRations(trail.RationsMeager); err != nil {
			return err
		}
	}
	if err := g.CanTravel(); errors.Is(err, trail.ErrOutOfFood) {
		return restock(g)
	}
	res, err := g.Tick()
	if err != nil {
		return err
	}
	if a.onTick != nil {
		a.onTick(res)
	}
	return nil
}

func restock(g *trail.Game) error {
	for _, way := range g.FoodRecovery() {
		switch way {
		case trail.RecoverShop:
			return g.OpenShop()
		case trail.RecoverForage:
			return forage(g)
		}
	}
	return trail.ErrOutOfFood
}

// forage plays the forage challenge frame by frame, tapping whenever the
// pointer sits on an open target.
func forage(g *trail.Game) error {
	id, ok := g.ForageChallenge()
	if !ok {
		return trail.ErrOutOfFood
	}
	_, sc, err := g.BeginChallenge(id)
	if err != nil {
		return err
	}
	if err := sc.Start(); err != nil {
		return err
	}
	for elapsed := time.Duration(0); sc.Advance(elapsed) == rhythm.StateActive; elapsed += frame {
		for onTarget(sc) {
			if _, err := sc.Hit(elapsed); err != nil {
				break
			}
		}
	}
	return g.CompleteChallenge(sc.Result())
}

func onTarget(sc *rhythm.Scorer) bool {
	for _, t := range sc.Targets() {
		if math.Abs(t-sc.Pointer()) <= 0.5 {
			return true
		}
	}
	return false
}

func (a *autopilot) rest(g *trail.Game) error {
	if weakest(g) < 70 && g.Resource(trail.ResMedkits) > 0 {
		if _, err := g.UseMedkit(); err == nil || !errors.Is(err, trail.ErrNobodyHurt) {
			return err
		}
	}
	if weakest(g) < 80 && a.camped < 3 {
		a.camped++
		return g.Camp()
	}
	return g.BreakCamp()
}
