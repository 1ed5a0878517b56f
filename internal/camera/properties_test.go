package camera_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/solarsim/internal/camera"
	"github.com/san-kum/solarsim/internal/dynamo"
)

var _ = Describe("Camera", func() {
	var cam *camera.Camera

	BeforeEach(func() {
		var err error
		cam, err = camera.New(camera.Options{TurnSpeed: 7.3})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("basis", func() {
		It("stays orthonormal across long random rotation sequences", func() {
			turns := []func(){
				cam.YawLeft, cam.YawRight,
				cam.PitchUp, cam.PitchDown,
				cam.RollLeft, cam.RollRight,
			}
			rng := rand.New(rand.NewSource(42))
			for i := 0; i < 10000; i++ {
				turns[rng.Intn(len(turns))]()
			}

			b := cam.Basis()
			for _, v := range []dynamo.Vec3{b.Right, b.Up, b.Forward} {
				Expect(v.Length()).To(BeNumerically("~", 1, 1e-4))
			}
			Expect(b.Right.Dot(b.Up)).To(BeNumerically("~", 0, 1e-4))
			Expect(b.Up.Dot(b.Forward)).To(BeNumerically("~", 0, 1e-4))
			Expect(b.Forward.Dot(b.Right)).To(BeNumerically("~", 0, 1e-4))
			Expect(b.Right.ApproxEqual(b.Forward.Cross(b.Up), 1e-4)).To(BeTrue())
		})

		It("is untouched by translation", func() {
			before := cam.Basis()
			cam.Forward()
			cam.Left()
			cam.Backward()
			cam.Right()
			Expect(cam.Basis()).To(Equal(before))
		})

		DescribeTable("opposite turns cancel",
			func(turn, undo func(*camera.Camera)) {
				before := cam.Basis()
				turn(cam)
				undo(cam)
				after := cam.Basis()
				Expect(after.Forward.ApproxEqual(before.Forward, 1e-9)).To(BeTrue())
				Expect(after.Up.ApproxEqual(before.Up, 1e-9)).To(BeTrue())
			},
			Entry("yaw", (*camera.Camera).YawLeft, (*camera.Camera).YawRight),
			Entry("pitch", (*camera.Camera).PitchUp, (*camera.Camera).PitchDown),
			Entry("roll", (*camera.Camera).RollLeft, (*camera.Camera).RollRight),
		)
	})

	Describe("speed", func() {
		It("never decreases on SpeedUp and never increases on SlowDown", func() {
			prev := cam.MoveSpeed()
			for i := 0; i < 40; i++ {
				cam.SpeedUp()
				Expect(cam.MoveSpeed()).To(BeNumerically(">=", prev))
				prev = cam.MoveSpeed()
			}
			Expect(prev).To(Equal(camera.DefaultMaxSpeed))

			for i := 0; i < 40; i++ {
				cam.SlowDown()
				Expect(cam.MoveSpeed()).To(BeNumerically("<=", prev))
				prev = cam.MoveSpeed()
			}
			Expect(prev).To(Equal(camera.DefaultMinSpeed))
		})

		It("returns to the start after alternating away from the bounds", func() {
			start := cam.MoveSpeed()
			for i := 0; i < 5; i++ {
				cam.SpeedUp()
				cam.SlowDown()
			}
			Expect(cam.MoveSpeed()).To(BeNumerically("~", start, 1e-15))
		})

		It("moves exactly one step per command", func() {
			cam.Forward()
			Expect(cam.Position().Length()).To(BeNumerically("~", cam.MoveSpeed(), 1e-15))
		})
	})

	Describe("view transform", func() {
		It("maps the camera position to the origin for any pose", func() {
			cam.SetPosition(dynamo.Vec3{X: 3, Y: -2, Z: 0.5})
			cam.YawLeft()
			cam.PitchUp()
			cam.RollRight()
			Expect(cam.View().MulPoint(cam.Position()).ApproxEqual(dynamo.Zero, 1e-12)).To(BeTrue())
		})

		It("keeps the orientation a pure rotation", func() {
			cam.PitchDown()
			cam.YawRight()
			o := cam.TransformOrientation()
			Expect(o.Mul(o.Transpose()).ApproxEqual(dynamo.Identity(), 1e-12)).To(BeTrue())
			Expect(math.Abs(o.MulDir(cam.Basis().Forward).Z + 1)).To(BeNumerically("<", 1e-12))
		})
	})
})
