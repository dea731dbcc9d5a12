package sim_test

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/telemetry"
)

var _ = Describe("Simulator lifecycle", func() {
	var (
		s       *sim.Simulator
		created []*sim.Ball
		onNew   sim.CreatedFunc
	)

	BeforeEach(func() {
		opts := sim.DefaultOptions()
		opts.TickInterval = 2 * time.Millisecond
		opts.Seed = 11
		s = sim.New(opts)

		created = nil
		onNew = func(_ physics.Vec2, b *sim.Ball) { created = append(created, b) }
	})

	AfterEach(func() {
		if !s.Disposed() {
			Expect(s.Dispose()).To(Succeed())
		}
	})

	It("creates balls inside the table and keeps them there", func() {
		Expect(s.Start(3, 800, 600, onNew)).To(Succeed())
		Expect(created).To(HaveLen(3))
		Expect(s.Count()).To(Equal(3))

		table := physics.Table{Width: 800, Height: 600}
		Consistently(func() bool {
			for _, b := range s.Snapshot() {
				if !table.Contains(b.Position, b.Radius) {
					return false
				}
			}
			return true
		}, 50*time.Millisecond, 5*time.Millisecond).Should(BeTrue())
	})

	It("moves balls while running", func() {
		Expect(s.Start(1, 800, 600, onNew)).To(Succeed())
		start := created[0].Position()

		Eventually(func() physics.Vec2 {
			return created[0].Position()
		}).WithTimeout(time.Second).ShouldNot(Equal(start))
	})

	It("removes balls in reverse creation order", func() {
		Expect(s.Start(3, 800, 600, onNew)).To(Succeed())
		Expect(s.RemoveLastBall()).To(Succeed())
		Expect(s.Count()).To(Equal(2))
		Expect(s.Balls()).To(Equal(created[:2]))
	})

	It("refuses work after dispose", func() {
		Expect(s.Start(3, 800, 600, onNew)).To(Succeed())
		Expect(s.RemoveLastBall()).To(Succeed())
		Expect(s.Dispose()).To(Succeed())

		Expect(s.Count()).To(BeZero())
		Expect(s.AddBall(onNew)).To(MatchError(sim.ErrInvalidState))
		Expect(s.Dispose()).To(MatchError(sim.ErrInvalidState))
	})

	It("rejects a missing creation callback", func() {
		Expect(s.Start(3, 800, 600, nil)).To(MatchError(sim.ErrInvalidArgument))
		Expect(s.AddBall(nil)).To(MatchError(sim.ErrInvalidArgument))
		Expect(s.Count()).To(BeZero())
	})

	Context("with telemetry", func() {
		var path string

		BeforeEach(func() {
			Expect(s.Dispose()).To(Succeed())

			path = filepath.Join(GinkgoT().TempDir(), "diag.log")
			opts := sim.DefaultOptions()
			opts.TickInterval = time.Millisecond
			opts.Store = telemetry.NewFileStore(path)
			opts.DrainInterval = 10 * time.Millisecond
			s = sim.New(opts)
		})

		It("writes one record per committed move", func() {
			var moves int
			Expect(s.Start(2, 400, 400, onNew)).To(Succeed())
			for _, b := range created {
				b.Subscribe(func(*sim.Ball, physics.Vec2) { moves++ })
			}

			Eventually(func() int {
				return int(s.TelemetryStats().Written)
			}).WithTimeout(time.Second).Should(BeNumerically(">=", 20))
			Expect(s.Dispose()).To(Succeed())

			records, err := telemetry.ReadLog(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(records)).To(BeNumerically(">=", moves))
			for _, r := range records {
				Expect([]int64{created[0].ID(), created[1].ID()}).To(ContainElement(r.BallID))
			}
		})
	})
})
