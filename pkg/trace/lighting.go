package trace

import (
	"math"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/models"
)

// Lighting evaluates the Phong model for one light at a surface point.
//
// The surface color comes from the material's stripe pattern, evaluated in
// the object space of object, or from the flat material color when there is
// no pattern. A nil object evaluates the pattern in world space. A point in
// shadow receives only the ambient term. The result is not clamped.
func Lighting(m models.Material, light models.PointLight, point, eyev, normalv math3d.Vec3, inShadow bool, object *models.Sphere) models.Color {
	base := m.Color
	if m.Pattern != nil {
		base = m.Pattern.StripeAtObject(object, point)
	}
	effective := base.Mul(light.Radiance())

	ambient := effective.Scale(m.Ambient)
	if inShadow {
		return ambient
	}

	lightv := light.Position.Sub(point).Normalize()
	lightDotNormal := lightv.Dot(normalv)
	if lightDotNormal < 0 {
		return ambient
	}

	diffuse := effective.Scale(m.Diffuse * lightDotNormal)

	reflectv := lightv.Negate().Reflect(normalv)
	reflectDotEye := reflectv.Dot(eyev)
	if reflectDotEye <= 0 {
		return ambient.Add(diffuse)
	}

	factor := math.Pow(reflectDotEye, m.Shininess)
	specular := light.Radiance().Scale(m.Specular * factor)
	return ambient.Add(diffuse).Add(specular)
}
