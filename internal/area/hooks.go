package area

import "skillhit/internal/world"

// Contact is passed to the area hooks for every enter and exit.
type Contact struct {
	Skill     string
	Caster    world.ActorID
	Actor     world.ActorID
	Component string
	Region    int
	// Elapsed is the area clock when the contact fired.
	Elapsed float64
	// DeltaTime is the frame delta of the tick that fired the contact.
	DeltaTime float64
	Dot       bool
}

// Hooks receive area contacts synchronously during Tick.
type Hooks interface {
	OnAreaEnter(contact Contact)
	OnAreaExit(contact Contact)
}

// HookFuncs adapts plain functions to Hooks. Nil fields are skipped.
type HookFuncs struct {
	Enter func(Contact)
	Exit  func(Contact)
}

func (h HookFuncs) OnAreaEnter(contact Contact) {
	if h.Enter != nil {
		h.Enter(contact)
	}
}

func (h HookFuncs) OnAreaExit(contact Contact) {
	if h.Exit != nil {
		h.Exit(contact)
	}
}
