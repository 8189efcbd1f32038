package material

import "github.com/df07/go-layered-materials/pkg/core"

const (
	eventLightSetConflict = "light_set_conflict"
	eventFresnelMismatch  = "fresnel_mismatch"
)

// Per-class diagnostic tables. Each is written into core.Events by the first
// instance of its class to update.
var (
	layerEvents = core.NewClassEvents(
		core.EventDef{Key: eventLightSetConflict, Severity: core.SeverityWarn, Message: "both materials bind a light set, using material_B's"},
	)
	twoSidedEvents = core.NewClassEvents(
		core.EventDef{Key: eventLightSetConflict, Severity: core.SeverityWarn, Message: "both sides bind a light set, using the back material's"},
	)
	mixEvents = core.NewClassEvents(
		core.EventDef{Key: eventLightSetConflict, Severity: core.SeverityWarn, Message: "inputs bind different light sets, using the last input's"},
	)
	hairLayerEvents = core.NewClassEvents(
		core.EventDef{Key: eventFresnelMismatch, Severity: core.SeverityError, Message: "Hair material fresnel types do not match"},
		core.EventDef{Key: eventLightSetConflict, Severity: core.SeverityWarn, Message: "both materials bind a light set, using material_B's"},
	)
)

// logEvent registers table on first use and logs key for o
func logEvent(o *SceneObject, table *core.ClassEvents, key string) {
	table.Register(core.Events)
	core.Events.Log(o.Logger(), o.Name(), table.ID(key))
}
