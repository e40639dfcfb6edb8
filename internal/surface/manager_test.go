package surface_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/surface"
)

var _ = Describe("Manager", func() {
	var (
		clock  *surface.FrameClock
		window *surface.Window
		pane   *surface.Pane
		mgr    *surface.Manager
		frames int
		now    time.Time
	)

	frame := func(time.Time) { frames++ }

	BeforeEach(func() {
		clock = surface.NewFrameClock()
		window = surface.NewWindow()
		pane = surface.NewPane("hero", 320, 160)
		mgr = surface.NewManager(clock, window, surface.Options{Opacity: 0.6, ZIndex: 1})
		frames = 0
		now = time.Unix(0, 0)
	})

	Context("without a container", func() {
		It("stays disabled and never schedules a frame", func() {
			mgr.Attach(nil)
			mgr.Start(frame)

			Expect(mgr.Enabled()).To(BeFalse())
			Expect(mgr.Running()).To(BeFalse())
			Expect(clock.Pending()).To(Equal(0))
			Expect(window.Listeners()).To(Equal(0))

			clock.Advance(now)
			Expect(frames).To(Equal(0))
		})

		It("treats a failed layout lookup the same way", func() {
			layout := surface.NewLayout()
			mgr.Attach(layout.Find("missing", ".also-missing"))
			Expect(mgr.Enabled()).To(BeFalse())
		})
	})

	Context("attached to a pane", func() {
		BeforeEach(func() {
			mgr.Attach(pane)
		})

		It("mounts a pointer-transparent surface sized to the pane", func() {
			Expect(pane.Children()).To(HaveLen(1))
			s := mgr.Surface()
			Expect(s.PointerEvents).To(BeFalse())
			Expect(s.Opacity).To(Equal(0.6))
			w, h := s.Size()
			Expect(w).To(Equal(320))
			Expect(h).To(Equal(160))
			Expect(window.Listeners()).To(Equal(1))
		})

		It("runs one frame per refresh", func() {
			mgr.Start(frame)
			for i := 0; i < 5; i++ {
				clock.Advance(now)
			}
			Expect(frames).To(Equal(5))
			Expect(mgr.Frames()).To(BeEquivalentTo(5))
		})

		It("ignores a second Start", func() {
			mgr.Start(frame)
			mgr.Start(frame)
			Expect(clock.Pending()).To(Equal(1))
		})

		It("never runs a frame after Stop returns", func() {
			mgr.Start(frame)
			clock.Advance(now)
			clock.Advance(now)
			mgr.Stop()

			for i := 0; i < 10; i++ {
				clock.Advance(now)
			}
			Expect(frames).To(Equal(2))
			Expect(clock.Pending()).To(Equal(0))
			Expect(pane.Children()).To(BeEmpty())
		})

		It("honours Stop called from inside a frame", func() {
			mgr.Start(func(time.Time) {
				frames++
				if frames == 3 {
					mgr.Stop()
				}
			})
			for i := 0; i < 10; i++ {
				clock.Advance(now)
			}
			Expect(frames).To(Equal(3))
		})

		It("refuses to restart once stopped", func() {
			mgr.Stop()
			mgr.Start(frame)
			clock.Advance(now)
			Expect(frames).To(Equal(0))
		})

		It("tracks the container box on resize without restarting the loop", func() {
			var got [2]int
			mgr.OnResize(func(w, h int) { got = [2]int{w, h} })
			mgr.Start(frame)
			clock.Advance(now)

			pane.SetCells(50, 12)
			window.Dispatch()

			w, h := mgr.Surface().Size()
			Expect([2]int{w, h}).To(Equal([2]int{50 * raster.CellWidth, 12 * raster.CellHeight}))
			Expect(got).To(Equal([2]int{400, 192}))

			clock.Advance(now)
			Expect(frames).To(Equal(2))
		})

		It("ignores resize events after Stop", func() {
			calls := 0
			mgr.OnResize(func(int, int) { calls++ })
			mgr.Stop()
			pane.SetBounds(10, 10)
			window.Dispatch()
			Expect(calls).To(Equal(0))
		})
	})
})
