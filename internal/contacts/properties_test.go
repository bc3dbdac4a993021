package contacts_test

import (
	"math"
	"math/rand"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vaishnavey/CALVADOS-poly/internal/contacts"
	"github.com/vaishnavey/CALVADOS-poly/internal/traj"
)

func TestContacts(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contacts Suite")
}

// randomFrames builds a deterministic pseudo-random periodic trajectory.
func randomFrames(nFrames, nAtoms int, box float64, seed int64) []traj.Frame {
	rng := rand.New(rand.NewSource(seed))
	frames := make([]traj.Frame, nFrames)
	for fi := range frames {
		frames[fi].Box = [3]float64{box, box, box}
		frames[fi].Positions = make([]traj.Vec3, nAtoms)
		for i := range frames[fi].Positions {
			frames[fi].Positions[i] = traj.Vec3{
				X: rng.Float64() * box,
				Y: rng.Float64() * box,
				Z: rng.Float64() * box,
			}
		}
	}
	return frames
}

var _ = Describe("contact counting", func() {
	var (
		frames []traj.Frame
		groupA []int
		groupB []int
	)

	BeforeEach(func() {
		frames = randomFrames(20, 40, 5.0, 42)
		groupA = make([]int, 20)
		groupB = make([]int, 20)
		for i := 0; i < 20; i++ {
			groupA[i] = i
			groupB[i] = 20 + i
		}
	})

	It("is symmetric in the group labels", func() {
		ab, err := contacts.Analyze(frames, contacts.Params{GroupA: groupA, GroupB: groupB, Cutoff: 0.6})
		Expect(err).NotTo(HaveOccurred())

		ba, err := contacts.Analyze(frames, contacts.Params{GroupA: groupB, GroupB: groupA, Cutoff: 0.6})
		Expect(err).NotTo(HaveOccurred())

		Expect(ba.Counts).To(Equal(ab.Counts))
		Expect(ba.Mean).To(Equal(ab.Mean))
	})

	It("counts nothing for a vanishing cutoff", func() {
		res, err := contacts.Analyze(frames, contacts.Params{GroupA: groupA, GroupB: groupB, Cutoff: 1e-12})
		Expect(err).NotTo(HaveOccurred())
		for _, n := range res.Counts {
			Expect(n).To(BeZero())
		}
	})

	It("saturates at |A|x|B| for an unbounded cutoff", func() {
		res, err := contacts.Analyze(frames, contacts.Params{GroupA: groupA, GroupB: groupB, Cutoff: math.Inf(1)})
		Expect(err).NotTo(HaveOccurred())
		for _, n := range res.Counts {
			Expect(n).To(Equal(res.MaxPairs))
		}
		Expect(res.MeanFraction).To(Equal(1.0))
	})

	It("keeps the contact fraction inside [0, 1]", func() {
		for _, cutoff := range []float64{0.2, 0.6, 1.5, 4.0} {
			res, err := contacts.Analyze(frames, contacts.Params{GroupA: groupA, GroupB: groupB, Cutoff: cutoff})
			Expect(err).NotTo(HaveOccurred())
			for _, f := range res.Fractions {
				Expect(f).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
			}
			Expect(res.MeanFraction).To(And(BeNumerically(">=", 0), BeNumerically("<=", 1)))
		}
	})

	It("reports exactly one contact when exactly one pair is close", func() {
		frame := traj.Frame{Positions: []traj.Vec3{
			{X: 0.0}, {X: 10.0}, // group A
			{X: 0.3}, {X: 20.0}, // group B
		}}
		res, err := contacts.Analyze([]traj.Frame{frame}, contacts.Params{
			GroupA: []int{0, 1}, GroupB: []int{2, 3}, Cutoff: 0.6,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Counts).To(Equal([]int{1}))
	})

	It("averages a no-contact frame and an all-contact frame to half the maximum", func() {
		far := traj.Frame{Positions: []traj.Vec3{
			{X: 0}, {X: 1}, {X: 50}, {X: 60},
		}}
		near := traj.Frame{Positions: []traj.Vec3{
			{X: 0}, {X: 0.1}, {X: 0.2}, {X: 0.3},
		}}
		res, err := contacts.Analyze([]traj.Frame{far, near}, contacts.Params{
			GroupA: []int{0, 1}, GroupB: []int{2, 3}, Cutoff: 0.6,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.MaxPairs).To(Equal(4))
		Expect(res.Counts).To(Equal([]int{0, 4}))
		Expect(res.Mean).To(Equal(2.0))
	})

	It("is deterministic across repeated runs", func() {
		first, err := contacts.Analyze(frames, contacts.Params{GroupA: groupA, GroupB: groupB, Cutoff: 0.6})
		Expect(err).NotTo(HaveOccurred())

		second, err := contacts.Analyze(frames, contacts.Params{GroupA: groupA, GroupB: groupB, Cutoff: 0.6})
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})
})
