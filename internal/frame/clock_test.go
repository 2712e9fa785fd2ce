package frame_test

import (
	"math/rand"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/simcanvas/internal/frame"
)

var _ = Describe("Clock", func() {
	It("reports elapsed seconds below the cap", func() {
		c := frame.NewClock(frame.DefaultDtCap)
		c.Start(time.Second)
		Expect(c.Tick(time.Second + 16*time.Millisecond)).To(BeNumerically("~", 0.016, 1e-9))
	})

	It("clamps large gaps to the cap", func() {
		c := frame.NewClock(frame.DefaultDtCap)
		c.Start(0)
		Expect(c.Tick(10 * time.Second)).To(Equal(0.05))
	})

	It("never returns a negative dt", func() {
		c := frame.NewClock(frame.DefaultDtCap)
		c.Start(time.Second)
		Expect(c.Tick(500 * time.Millisecond)).To(Equal(0.0))
	})

	It("keeps every dt within [0, cap] for arbitrary timestamps", func() {
		rng := rand.New(rand.NewSource(7))
		c := frame.NewClock(frame.DefaultDtCap)
		now := time.Duration(0)
		c.Start(now)
		for i := 0; i < 5000; i++ {
			now += time.Duration(rng.Int63n(int64(30*time.Second))) - 2*time.Second
			dt := c.Tick(now)
			Expect(dt).To(BeNumerically(">=", 0))
			Expect(dt).To(BeNumerically("<=", 0.05))
		}
	})

	It("falls back to the default cap", func() {
		Expect(frame.NewClock(0).Cap()).To(Equal(frame.DefaultDtCap.Seconds()))
	})
})
