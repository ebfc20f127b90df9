package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	MaterialName string                 `json:"materialName"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	UV           [2]float64             `json:"uv"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        [3]float64             `json:"color"` // Shaded pixel colour
	Properties   map[string]interface{} `json:"properties"`
}

// InspectResult contains the first hit of an inspection ray
type InspectResult struct {
	Hit       bool
	Ray       core.Ray
	HitRecord geometry.HitRecord
	Primitive *geometry.Primitive
}

// inspectPixel casts the ray through the centre of the given pixel and returns the first object hit
func inspectPixel(sc *scene.Scene, cam *renderer.Camera, width, height, pixelX, pixelY int) InspectResult {
	ray := cam.Ray(pixelX, pixelY, width, height)
	if sc.BVH == nil {
		return InspectResult{Ray: ray}
	}
	hit, ok := sc.BVH.Intersect(ray, math.Inf(1))
	if !ok {
		return InspectResult{Ray: ray}
	}
	result := InspectResult{Hit: true, Ray: ray, HitRecord: hit}
	if hit.Primitive >= 0 && hit.Primitive < len(sc.Primitives) {
		result.Primitive = &sc.Primitives[hit.Primitive]
	}
	return result
}

// extractMaterialInfo lists the parameters that matter for the material's kind
func extractMaterialInfo(mat *material.Material, textures *material.TextureStore) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"color": vecArray(mat.Color),
	}
	if mat.Textured() {
		if tex := textures.Get(mat.Texture); tex != nil {
			properties["texture"] = tex.Name
			properties["animated"] = tex.Animated()
		} else {
			properties["texture"] = "fallback"
		}
	}

	switch mat.Kind {
	case material.KindMatte:
		properties["diffuseWeight"] = mat.DiffuseWeight
		properties["specularExponent"] = mat.SpecularExponent
		properties["specularWeight"] = mat.SpecularWeight
		properties["reflectivity"] = mat.Reflectivity
	case material.KindMirror:
		properties["reflectivity"] = mat.Reflectivity
	case material.KindGlass:
		properties["transparency"] = mat.Transparency
		properties["refractiveIndex"] = mat.RefractiveIndex
		properties["reflectivity"] = mat.Reflectivity
	case material.KindEmissive:
		properties["emission"] = vecArray(mat.Emission)
	}
	return mat.Kind.String(), properties
}

// extractGeometryInfo lists the shape parameters of the primitive
func extractGeometryInfo(p *geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if p == nil {
		return "unknown", properties
	}

	switch p.Kind {
	case geometry.KindSphere:
		properties["center"] = vecArray(p.Sphere.Center)
		properties["radius"] = p.Sphere.Radius
	case geometry.KindTriangle:
		properties["v0"] = vecArray(p.Triangle.V0)
		properties["v1"] = vecArray(p.Triangle.V1)
		properties["v2"] = vecArray(p.Triangle.V2)
		properties["smooth"] = p.Triangle.HasNormals
	case geometry.KindPlane:
		properties["point"] = vecArray(p.Plane.Point)
		properties["normal"] = vecArray(p.Plane.Normal)
		if p.Plane.Extent > 0 {
			properties["extent"] = p.Plane.Extent
		}
	case geometry.KindBox:
		properties["center"] = vecArray(p.Box.Center)
		properties["halfSize"] = vecArray(p.Box.HalfSize)
	}
	return p.Kind.String(), properties
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(c echo.Context) error {
	req, sc, err := s.requestScene(c)
	if err != nil {
		return err
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid y coordinate")
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		return echo.NewHTTPError(http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	result := inspectPixel(sc, req.camera(sc), req.Width, req.Height, pixelX, pixelY)

	env := req.environment(sc)
	shader := integrator.NewWhittedIntegrator(req.MaxDepth, integrator.DefaultShadowBias)
	color := shader.Shade(result.Ray, sc, &env, 0)

	if !result.Hit {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false, Color: vecArray(color)})
	}

	hit := result.HitRecord
	mat := sc.Material(hit.Material)
	materialType, materialProps := extractMaterialInfo(mat, sc.Textures)
	geometryType, geometryProps := extractGeometryInfo(result.Primitive)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		MaterialName: mat.Name,
		GeometryType: geometryType,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		UV:           [2]float64{hit.UV.U, hit.UV.V},
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Color:        vecArray(color),
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
