package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        string                 `json:"color"` // Traced pixel color as #rrggbb
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains the first surface hit by an inspection ray
type InspectResult struct {
	Hit      bool
	GeoPoint geometry.GeoPoint
	Ray      core.Ray
	Color    core.Color
}

func vecJSON(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Color) string {
	rgba := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// extractMaterialInfo classifies a material by its dominant effect and
// lists its coefficients
func (s *Server) extractMaterialInfo(m material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"kd":        vecJSON(m.KD),
		"ks":        vecJSON(m.KS),
		"shininess": m.Shininess,
		"kt":        vecJSON(m.KT),
		"kr":        vecJSON(m.KR),
	}

	switch {
	case !m.KT.IsZero() && !m.KR.IsZero():
		return "glass-mirror", properties
	case !m.KT.IsZero():
		return "transparent", properties
	case !m.KR.IsZero():
		return "mirror", properties
	case !m.KS.IsZero():
		return "glossy", properties
	case !m.KD.IsZero():
		return "matte", properties
	default:
		return "emissive-only", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func (s *Server) extractGeometryInfo(g geometry.Geometry) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"emission": hexColor(g.Emission()),
	}

	switch geom := g.(type) {
	case *geometry.Sphere:
		properties["center"] = vecJSON(geom.Center())
		properties["radius"] = geom.Radius()
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vecJSON(geom.Point())
		properties["normal"] = vecJSON(geom.Normal(geom.Point()))
		return "plane", properties

	case *geometry.Triangle:
		properties["vertices"] = verticesJSON(geom.Vertices())
		return "triangle", properties

	case *geometry.Polygon:
		properties["vertices"] = verticesJSON(geom.Vertices())
		return "polygon", properties

	default:
		return "unknown", properties
	}
}

func verticesJSON(vs []core.Vec3) [][3]float64 {
	out := make([][3]float64, len(vs))
	for i, v := range vs {
		out[i] = vecJSON(v)
	}
	return out
}

// inspectPixel casts the ray through the center of the pixel and returns the
// closest surface it hits along with the traced color
func inspectPixel(sceneObj *scene.Scene, camera *renderer.Camera, width, height, pixelX, pixelY int) InspectResult {
	ray := camera.RayThroughPixel(width, height, pixelX, pixelY)
	color := integrator.NewWhittedTracer(sceneObj, integrator.DefaultConfig()).TraceRay(ray)

	gp, ok := geometry.FindClosestIntersection(sceneObj.Geometries, ray)
	if !ok {
		return InspectResult{Hit: false, Ray: ray, Color: color}
	}
	return InspectResult{Hit: true, GeoPoint: gp, Ray: ray, Color: color}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	inspectReq, err := s.parseSceneParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	camera, err := s.createCamera(sceneObj, inspectReq)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid camera: "+err.Error())
		return
	}

	result := inspectPixel(sceneObj, camera, inspectReq.Width, inspectReq.Height, pixelX, pixelY)
	if !result.Hit {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(InspectResponse{Hit: false, Color: hexColor(result.Color)})
		return
	}

	gp := result.GeoPoint
	normal := gp.Geometry.Normal(gp.Point)
	materialType, materialProps := s.extractMaterialInfo(gp.Geometry.Material())
	geometryType, geometryProps := s.extractGeometryInfo(gp.Geometry)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecJSON(gp.Point),
		Normal:       vecJSON(normal),
		Distance:     gp.Point.Distance(result.Ray.Origin),
		FrontFace:    normal.Dot(result.Ray.Direction) < 0,
		Color:        hexColor(result.Color),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
