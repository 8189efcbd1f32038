package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-layered-materials/pkg/core"
	"github.com/df07/go-layered-materials/pkg/material"
	"github.com/df07/go-layered-materials/pkg/renderer"
)

// InspectResponse represents the JSON response for material inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	Material     string         `json:"material"`
	MaterialType string         `json:"materialType"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	UV           [2]float64     `json:"uv"`
	Resolved     bool           `json:"resolved"`
	Presence     float64        `json:"presence"`
	Parameters   map[string]any `json:"parameters,omitempty"`
	Uniform      map[string]any `json:"uniform,omitempty"`
	Properties   map[string]any `json:"properties"`
}

func vec3JSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(v core.Vec3) string {
	c := v.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

func childInfo(s *Server, obj material.Object) map[string]any {
	if obj == nil {
		return nil
	}
	childType, childProps := s.extractMaterialInfo(obj)
	return map[string]any{
		"name":       obj.Name(),
		"type":       childType,
		"properties": childProps,
	}
}

// extractMaterialInfo describes the configuration of a material and its inputs
func (s *Server) extractMaterialInfo(obj material.Object) (string, map[string]any) {
	properties := make(map[string]any)

	switch m := obj.(type) {
	case *material.Base:
		properties["specularModel"] = m.SpecularModel.String()
		properties["subsurface"] = m.Subsurface.String()
		properties["refractiveIndex"] = m.RefractiveIndex
		properties["thinGeometry"] = m.ThinGeometry
		properties["caustics"] = m.Caustics
		properties["glitter"] = m.Glitter != nil
		if solid, ok := m.Albedo.(*material.SolidColor); ok {
			properties["color"] = hexColor(solid.Color)
		}
		return "base", properties

	case *material.Hair:
		properties["ior"] = m.Lobes.IOR
		properties["fresnelType"] = m.Lobes.FresnelType.String()
		properties["weight"] = m.Lobes.Weight
		if solid, ok := m.Color.(*material.SolidColor); ok {
			properties["color"] = hexColor(solid.Color)
		}
		return "hair", properties

	case *material.Layer:
		properties["colorSpace"] = m.ColorSpace.String()
		properties["materialA"] = childInfo(s, m.MaterialA)
		properties["materialB"] = childInfo(s, m.MaterialB)
		return "layer", properties

	case *material.HairLayer:
		properties["colorSpace"] = m.ColorSpace.String()
		properties["fresnelMismatch"] = m.FresnelMismatch()
		properties["materialA"] = childInfo(s, m.MaterialA)
		properties["materialB"] = childInfo(s, m.MaterialB)
		return "hair_layer", properties

	case *material.Switch:
		properties["choice"] = m.Choice
		if m.Choice >= 0 && m.Choice < len(m.Materials) {
			properties["chosen"] = childInfo(s, m.Materials[m.Choice])
		}
		return "switch", properties

	case *material.TwoSided:
		properties["front"] = childInfo(s, m.Front)
		properties["back"] = childInfo(s, m.Back)
		return "two_sided", properties

	case *material.HairColorCorrect:
		properties["on"] = m.On
		properties["input"] = childInfo(s, m.Input)
		return "hair_color_correct", properties

	case *material.ColorCorrect:
		properties["on"] = m.On
		properties["deferred"] = m.Deferred
		properties["input"] = childInfo(s, m.Input)
		return "color_correct", properties

	case *material.Mix:
		properties["interpolation"] = m.Interpolation.String()
		properties["remapMixToInputs"] = m.RemapMixToInputs
		var inputs []map[string]any
		for _, child := range m.Materials {
			if child != nil {
				inputs = append(inputs, childInfo(s, child))
			}
		}
		properties["materials"] = inputs
		return "mix", properties

	case *material.Adjust:
		properties["on"] = m.On
		properties["emissionMode"] = m.EmissionMode.String()
		properties["overrideThinGeometry"] = m.OverrideThinGeometry.String()
		properties["overrideCastsCaustics"] = m.OverrideCastsCaustics.String()
		properties["input"] = childInfo(s, m.Input)
		return "adjust", properties

	default:
		return "unknown", properties
	}
}

// resolvedParameters summarizes the parameters a material resolved for one sample
func resolvedParameters(p *material.Parameters) map[string]any {
	out := map[string]any{
		"normal":          vec3JSON(p.Normal),
		"emission":        vec3JSON(p.Emission),
		"castsCaustics":   p.CastsCaustics,
		"specular":        p.Specular,
		"roughness":       p.Roughness,
		"anisotropy":      p.Anisotropy,
		"refractiveIndex": p.RefractiveIndex,
		"metallic":        p.Metallic,
		"metallicColor":   vec3JSON(p.MetallicColor),
		"albedo":          vec3JSON(p.Diffuse.Albedo),
		"color":           hexColor(p.Diffuse.Albedo),
		"transmission":    p.Transmission.Weight,
		"fuzz":            p.Fuzz.Weight,
		"clearcoat":       p.OuterSpecular.Weight,
		"iridescence":     p.Iridescence.Weight,
		"glitterMask":     p.GlitterVarying.Mask,
		"glitter":         p.Glitter != nil,
	}
	out["colorCorrections"] = p.ColorCorrections.Len()
	if p.Hair.Weight > 0 {
		out["hair"] = map[string]any{
			"weight":      p.Hair.Weight,
			"color":       vec3JSON(p.Hair.Color),
			"ior":         p.Hair.IOR,
			"fresnelType": p.Hair.FresnelType.String(),
		}
	}
	return out
}

func uniformParameters(u *material.UniformParameters) map[string]any {
	return map[string]any{
		"specularModel":       u.SpecularModel.String(),
		"outerSpecularModel":  u.OuterSpecularModel.String(),
		"subsurface":          u.Subsurface.String(),
		"thinGeometry":        u.ThinGeometry,
		"preventLightCulling": u.PreventLightCulling,
		"lightSet":            u.LightSet != nil,
	}
}

// handleInspect resolves the material at one pixel of the swatch
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, m, err := s.loadMaterial(req, s.logger)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	materialType, properties := s.extractMaterialInfo(m)
	response := InspectResponse{
		Material:     m.Name(),
		MaterialType: materialType,
		Properties:   properties,
	}

	state, hit := renderer.NewSwatch(m, sceneObj, req.swatchConfig()).StateAt(pixelX, pixelY)
	if !hit {
		writeJSON(w, http.StatusOK, response)
		return
	}

	response.Hit = true
	response.Point = vec3JSON(state.P)
	response.Normal = vec3JSON(state.N)
	response.UV = [2]float64{state.UV.X, state.UV.Y}
	response.Presence = m.ResolvePresence(state)

	params, uniform, ok := material.Resolve(m, state)
	response.Resolved = ok
	if ok {
		response.Parameters = resolvedParameters(&params)
		response.Uniform = uniformParameters(&uniform)
	}

	writeJSON(w, http.StatusOK, response)
}
