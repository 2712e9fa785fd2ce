package session_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/session"
	"github.com/san-kum/simcanvas/internal/surface"
)

type ball struct {
	X, V float64
}

type ballParams struct {
	Gravity float64
}

type seen struct {
	frames []session.Frame
	params []ballParams
}

func recorder(rec *seen) session.DrawFunc[ball, ballParams] {
	return func(ctx surface.Context, f session.Frame, s *ball, p ballParams) {
		s.V += p.Gravity * f.Dt
		s.X += s.V * f.Dt
		rec.frames = append(rec.frames, f)
		rec.params = append(rec.params, p)
	}
}

var _ = Describe("Session", func() {
	var (
		host *countingHost
		elem *element
		sess *session.Session[ball, ballParams]
		rec  *seen
	)

	BeforeEach(func() {
		host = &countingHost{ManualHost: frame.NewManualHost()}
		elem = newElement(400, 300)
		sess = session.New[ball, ballParams](host, elem, elem, ball{X: 1}, session.Options{})
		rec = &seen{}
	})

	It("returns the surface handle sized at mount", func() {
		handle := sess.Register(recorder(rec), nil, ballParams{Gravity: 10}, frame.DefaultOptions())
		Expect(sess.Mount()).To(BeTrue())
		Expect(handle.Size().Width).To(Equal(400.0))
		Expect(handle.Size().BackingWidth).To(Equal(800))
	})

	It("passes dimensions, dt, state and params explicitly each frame", func() {
		sess.Register(recorder(rec), nil, ballParams{Gravity: 10}, frame.DefaultOptions())
		sess.Mount()
		host.Run(3, refresh)

		Expect(rec.frames).To(HaveLen(3))
		Expect(rec.frames[0].Width).To(Equal(400.0))
		Expect(rec.frames[2].Index).To(Equal(int64(2)))
		Expect(rec.frames[2].Elapsed).To(BeNumerically("~", 0.048, 1e-9))
		Expect(sess.State().V).To(BeNumerically("~", 0.48, 1e-9))
	})

	It("waits for registration before starting", func() {
		Expect(sess.Mount()).To(BeFalse())
		host.Run(2, refresh)
		Expect(rec.frames).To(BeEmpty())

		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		host.Run(2, refresh)
		Expect(rec.frames).To(HaveLen(2))
	})

	It("swaps params without restarting when deps are unchanged", func() {
		sess.Register(recorder(rec), []any{"same"}, ballParams{Gravity: 1}, frame.DefaultOptions())
		sess.Mount()
		host.Advance(refresh)

		sess.Register(recorder(rec), []any{"same"}, ballParams{Gravity: 2}, frame.DefaultOptions())
		host.Advance(refresh)

		Expect(host.cancels).To(Equal(0))
		Expect(rec.params).To(Equal([]ballParams{{Gravity: 1}, {Gravity: 2}}))
	})

	It("restarts the loop when deps change", func() {
		sess.Register(recorder(rec), []any{45.0, 50.0}, ballParams{}, frame.DefaultOptions())
		sess.Mount()
		host.Advance(refresh)

		sess.Register(recorder(rec), []any{30.0, 50.0}, ballParams{}, frame.DefaultOptions())
		Expect(host.cancels).To(Equal(1))
		Expect(host.Pending()).To(Equal(1))

		host.Advance(refresh)
		Expect(rec.frames).To(HaveLen(2))
	})

	It("stops drawing and drops the resize listener on unmount", func() {
		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		sess.Mount()
		host.Run(4, refresh)
		Expect(elem.Len()).To(Equal(1))

		sess.Unmount()
		sess.Unmount()

		host.Run(50, refresh)
		Expect(rec.frames).To(HaveLen(4))
		Expect(host.Pending()).To(Equal(0))
		Expect(host.cancels).To(Equal(1))
		Expect(elem.Len()).To(Equal(0))
		Expect(sess.Mounted()).To(BeFalse())
	})

	It("can be mounted again after unmount", func() {
		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		sess.Mount()
		sess.Unmount()
		Expect(sess.Mount()).To(BeTrue())
		host.Advance(refresh)
		Expect(rec.frames).To(HaveLen(1))
	})

	It("starts once the element gets a real layout", func() {
		elem.w, elem.h = 0, 0
		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		Expect(sess.Mount()).To(BeFalse())
		host.Run(3, refresh)
		Expect(rec.frames).To(BeEmpty())

		elem.resize(200, 100)
		host.Advance(refresh)
		Expect(rec.frames).To(HaveLen(1))
		Expect(rec.frames[0].Width).To(Equal(200.0))
	})

	It("applies a resize before the next draw", func() {
		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		sess.Mount()
		host.Advance(refresh)

		elem.resize(1024, 768)
		host.Advance(refresh)

		Expect(rec.frames[1].Width).To(Equal(1024.0))
		Expect(sess.Surface().Size().BackingHeight).To(Equal(1536))
	})

	It("keeps the previous size through a degenerate resize", func() {
		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		sess.Mount()
		elem.resize(0, 300)
		host.Advance(refresh)
		Expect(rec.frames[0].Width).To(Equal(400.0))
	})

	Context("static registration", func() {
		It("draws once, again on re-register and on resize", func() {
			sess.Register(recorder(rec), nil, ballParams{Gravity: 1}, frame.Static())
			sess.Mount()
			Expect(rec.frames).To(HaveLen(1))
			Expect(rec.frames[0].Dt).To(Equal(0.0))

			host.Run(5, refresh)
			Expect(rec.frames).To(HaveLen(1))

			sess.Register(recorder(rec), nil, ballParams{Gravity: 2}, frame.Static())
			Expect(rec.frames).To(HaveLen(2))
			Expect(rec.params[1].Gravity).To(Equal(2.0))

			elem.resize(640, 480)
			Expect(rec.frames).To(HaveLen(3))
			Expect(rec.frames[2].Width).To(Equal(640.0))
		})
	})

	It("lets the page mutate state between frames", func() {
		sess.Update(func(b *ball) { b.X = 42 })
		Expect(sess.State().X).To(Equal(42.0))
	})

	It("keeps sessions independent", func() {
		otherElem := newElement(100, 100)
		other := session.New[ball, ballParams](host, otherElem, otherElem, ball{}, session.Options{})
		otherRec := &seen{}

		sess.Register(recorder(rec), nil, ballParams{}, frame.DefaultOptions())
		other.Register(recorder(otherRec), nil, ballParams{}, frame.DefaultOptions())
		sess.Mount()
		other.Mount()
		host.Advance(refresh)

		sess.Unmount()
		host.Run(3, refresh)

		Expect(rec.frames).To(HaveLen(1))
		Expect(otherRec.frames).To(HaveLen(4))
		Expect(otherElem.Len()).To(Equal(1))
	})
})
