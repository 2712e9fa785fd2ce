package frame_test

import (
	"image/color"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simcanvas/internal/frame"
	"github.com/san-kum/simcanvas/internal/surface"
)

var _ = Describe("Scheduler", func() {
	var (
		host  *frame.ManualHost
		elem  *testElement
		surf  *surface.Surface
		calls int
		dts   []float64
		sizes [][2]float64
		draw  frame.DrawFunc
	)

	BeforeEach(func() {
		host = frame.NewManualHost()
		elem = newTestElement(320, 240)
		surf = surface.New(elem)
		_, err := surf.Resize()
		Expect(err).NotTo(HaveOccurred())

		calls = 0
		dts = nil
		sizes = nil
		draw = func(ctx surface.Context, w, h, dt float64) {
			calls++
			dts = append(dts, dt)
			sizes = append(sizes, [2]float64{w, h})
		}
	})

	Context("in static mode", func() {
		It("draws exactly once with dt=0 and schedules nothing", func() {
			s := frame.New(host, surf, draw, frame.Static())
			Expect(s.Start()).To(BeTrue())
			Expect(calls).To(Equal(1))
			Expect(dts).To(Equal([]float64{0}))
			Expect(host.Pending()).To(Equal(0))

			host.Run(10, refresh)
			Expect(calls).To(Equal(1))
		})
	})

	Context("in animate mode", func() {
		It("draws once per refresh with the elapsed dt", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			Expect(s.Start()).To(BeTrue())
			Expect(calls).To(Equal(0))

			host.Run(3, refresh)
			Expect(calls).To(Equal(3))
			for _, dt := range dts {
				Expect(dt).To(BeNumerically("~", 0.016, 1e-9))
			}
			Expect(sizes[0]).To(Equal([2]float64{320, 240}))
		})

		It("clamps dt after a stall", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			s.Start()
			host.Advance(refresh)
			host.Advance(30 * time.Second)
			Expect(dts[1]).To(Equal(0.05))
		})

		It("honours a custom cap", func() {
			opts := frame.DefaultOptions()
			opts.DtCap = 10 * time.Millisecond
			s := frame.New(host, surf, draw, opts)
			s.Start()
			host.Advance(refresh)
			Expect(dts[0]).To(BeNumerically("~", 0.01, 1e-9))
		})

		It("sees new logical dimensions on the frame after a resize", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			s.Start()
			host.Advance(refresh)
			elem.w, elem.h = 800, 600
			surf.Resize()
			host.Advance(refresh)
			Expect(sizes[1]).To(Equal([2]float64{800, 600}))
		})
	})

	Context("when stopped", func() {
		It("never draws again", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			s.Start()
			host.Run(5, refresh)
			s.Stop()
			before := calls

			host.Run(100, refresh)
			Expect(calls).To(Equal(before))
			Expect(host.Pending()).To(Equal(0))
			Expect(s.Running()).To(BeFalse())
		})

		It("cancels the pending frame exactly once", func() {
			ch := &countingHost{ManualHost: host}
			s := frame.New(ch, surf, draw, frame.DefaultOptions())
			s.Start()
			s.Stop()
			s.Stop()
			s.Stop()
			Expect(ch.cancels).To(Equal(1))
		})

		It("ignores a frame the host delivers after cancellation", func() {
			lh := &leakyHost{ManualHost: host}
			s := frame.New(lh, surf, draw, frame.DefaultOptions())
			s.Start()
			s.Stop()

			Expect(lh.Pending()).To(Equal(1))
			lh.Run(5, refresh)
			Expect(calls).To(Equal(0))
		})

		It("keeps a single loop when restarted on a host that cannot cancel", func() {
			lh := &leakyHost{ManualHost: host}
			s := frame.New(lh, surf, draw, frame.DefaultOptions())
			s.Start()
			s.Stop()
			s.Start()

			lh.Advance(refresh)
			Expect(calls).To(Equal(1))
			lh.Advance(refresh)
			Expect(calls).To(Equal(2))
			Expect(lh.Pending()).To(Equal(1))
		})

		It("keeps a single loop when draw restarts the scheduler", func() {
			var s *frame.Scheduler
			restarted := false
			s = frame.New(host, surf, func(ctx surface.Context, w, h, dt float64) {
				calls++
				if !restarted {
					restarted = true
					s.Stop()
					s.Start()
				}
			}, frame.DefaultOptions())
			s.Start()

			host.Run(3, refresh)
			Expect(calls).To(Equal(3))
			Expect(host.Pending()).To(Equal(1))
		})

		It("can be started again", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			s.Start()
			host.Advance(refresh)
			s.Stop()
			Expect(s.Start()).To(BeTrue())
			host.Advance(refresh)
			Expect(calls).To(Equal(2))
		})
	})

	Context("without a drawing surface", func() {
		It("does not start the loop", func() {
			elem.detached = true
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			Expect(s.Start()).To(BeFalse())
			Expect(host.Pending()).To(Equal(0))
			Expect(s.Running()).To(BeFalse())
		})

		It("skips frames while the surface is gone and resumes after", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			s.Start()
			elem.detached = true
			host.Run(3, refresh)
			Expect(calls).To(Equal(0))
			Expect(s.Running()).To(BeTrue())

			elem.detached = false
			host.Advance(refresh)
			Expect(calls).To(Equal(1))
		})

		It("treats nil wiring as unavailable", func() {
			Expect(frame.New(host, nil, draw, frame.DefaultOptions()).Start()).To(BeFalse())
		})
	})

	Context("clearing", func() {
		It("clears to transparent by default", func() {
			s := frame.New(host, surf, draw, frame.DefaultOptions())
			s.Start()
			host.Run(2, refresh)
			Expect(elem.backend.clears).To(Equal(2))
			Expect(elem.backend.fills).To(BeEmpty())
		})

		It("fills with the clear color", func() {
			opts := frame.DefaultOptions()
			opts.Clear = frame.ClearFill
			opts.ClearColor = color.RGBA{R: 15, G: 23, B: 42, A: 255}
			s := frame.New(host, surf, draw, opts)
			s.Start()
			host.Advance(refresh)
			Expect(elem.backend.fills).To(Equal([]color.RGBA{{R: 15, G: 23, B: 42, A: 255}}))
			Expect(elem.backend.clears).To(Equal(0))
		})

		It("leaves the surface alone with ClearNone", func() {
			opts := frame.DefaultOptions()
			opts.Clear = frame.ClearNone
			s := frame.New(host, surf, draw, opts)
			s.Start()
			host.Run(3, refresh)
			Expect(elem.backend.clears).To(Equal(0))
			Expect(elem.backend.fills).To(BeEmpty())
		})
	})

	It("keeps looping when a frame panics", func() {
		n := 0
		s := frame.New(host, surf, func(surface.Context, float64, float64, float64) {
			n++
			if n == 2 {
				panic("bad slider value")
			}
		}, frame.DefaultOptions())
		s.Start()
		host.Run(5, refresh)
		Expect(n).To(Equal(5))
		Expect(s.Frames()).To(Equal(int64(5)))
	})
})
