package recorder

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/INLOpen/scintbase/core"
	"github.com/INLOpen/scintbase/hooks"
)

// ScriptedPrimary is the event-level source description of a scripted
// event.
type ScriptedPrimary struct {
	Species  string    `yaml:"species"`
	Position core.Vec3 `yaml:"position"`
	Energy   float64   `yaml:"energy"`
}

// ScriptedTrack is one track entering tracking. Fields mirror the
// engine's track-begin callback.
type ScriptedTrack struct {
	Handle   uint64    `yaml:"handle"`
	TrackID  int       `yaml:"track_id"`
	ParentID int       `yaml:"parent_id"`
	Particle string    `yaml:"particle"`
	Vertex   core.Vec3 `yaml:"vertex"`
	Energy   float64   `yaml:"energy"`
}

// ScriptedSpawn is one secondary reported at step end.
type ScriptedSpawn struct {
	Handle   uint64    `yaml:"handle"`
	Particle string    `yaml:"particle"`
	Position core.Vec3 `yaml:"position"`
}

// ScriptedStep is one processed step.
type ScriptedStep struct {
	Deposit     float64         `yaml:"deposit"`
	Secondaries []ScriptedSpawn `yaml:"secondaries"`
}

// ScriptedHit is one detector-boundary crossing.
type ScriptedHit struct {
	TrackID      int       `yaml:"track_id"`
	ParentID     int       `yaml:"parent_id"`
	Particle     string    `yaml:"particle"`
	Vertex       core.Vec3 `yaml:"vertex"`
	Position     core.Vec3 `yaml:"position"`
	Direction    core.Vec3 `yaml:"direction"`
	Polarization core.Vec3 `yaml:"polarization"`
	EnergyEV     float64   `yaml:"energy_ev"`
}

// ScriptedAction is one ordered callback within an event. Exactly one
// of its fields should be set; callback order within an event is
// significant (stashes precede the tracks that consume them).
type ScriptedAction struct {
	Track *ScriptedTrack `yaml:"track,omitempty"`
	Step  *ScriptedStep  `yaml:"step,omitempty"`
	Hit   *ScriptedHit   `yaml:"hit,omitempty"`
}

// ScriptedEvent is one full simulated event to replay.
type ScriptedEvent struct {
	EventID int64            `yaml:"event_id"`
	Primary *ScriptedPrimary `yaml:"primary"`
	Actions []ScriptedAction `yaml:"actions"`
}

type scriptFile struct {
	Events []ScriptedEvent `yaml:"events"`
}

// LoadScript parses a replay script from YAML.
func LoadScript(r io.Reader) ([]ScriptedEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var file scriptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse script YAML: %w", err)
	}
	return file.Events, nil
}

// LoadScriptFile parses a replay script from a YAML file.
func LoadScriptFile(path string) ([]ScriptedEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script %s: %w", path, err)
	}
	defer f.Close()
	return LoadScript(f)
}

func (p *ScriptedPrimary) snapshot() *hooks.PrimarySnapshot {
	if p == nil {
		return nil
	}
	return &hooks.PrimarySnapshot{
		Species:  p.Species,
		Position: p.Position,
		Energy:   p.Energy,
	}
}

func (t *ScriptedTrack) payload() hooks.TrackBeginPayload {
	return hooks.TrackBeginPayload{
		Handle:       core.SpawnHandle(t.Handle),
		TrackID:      t.TrackID,
		ParentID:     t.ParentID,
		ParticleName: t.Particle,
		Vertex:       t.Vertex,
		VertexEnergy: t.Energy,
	}
}

func (s *ScriptedStep) payload() hooks.StepSecondariesPayload {
	p := hooks.StepSecondariesPayload{Deposit: s.Deposit}
	for _, spawn := range s.Secondaries {
		p.Secondaries = append(p.Secondaries, hooks.SecondarySpawn{
			Handle:       core.SpawnHandle(spawn.Handle),
			ParticleName: spawn.Particle,
			Position:     spawn.Position,
		})
	}
	return p
}

func (h *ScriptedHit) payload() *hooks.BoundaryHitPayload {
	particle := h.Particle
	if particle == "" {
		particle = core.OpticalPhotonName
	}
	accepted := false
	return &hooks.BoundaryHitPayload{
		TrackID:      h.TrackID,
		ParentID:     h.ParentID,
		ParticleName: particle,
		Vertex:       h.Vertex,
		Position:     h.Position,
		Direction:    h.Direction,
		Polarization: h.Polarization,
		TotalEnergy:  h.EnergyEV * core.EV,
		Accepted:     &accepted,
	}
}
