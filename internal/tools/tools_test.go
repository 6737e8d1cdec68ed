package tools_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/weavesim/internal/cloth"
	"github.com/san-kum/weavesim/internal/tools"
)

func point(s *cloth.State, i, j int) *cloth.Point {
	idx, ok := s.IndexOf(cloth.GridCoord{I: i, J: j})
	Expect(ok).To(BeTrue())
	return &s.Points[idx]
}

var _ = Describe("Controller", func() {
	var (
		c *tools.Controller
		s *cloth.State
	)

	BeforeEach(func() {
		c = tools.NewController(0.2)
		var err error
		// 4×4 grid at spacing 1: i, j in [-2, 1], row i=-2 pinned.
		s, err = cloth.BuildTopology(4, 1)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("modes", func() {
		It("starts simulating with the tear tool", func() {
			Expect(c.Mode()).To(Equal(tools.ModeSimulate))
			Expect(c.Tool()).To(Equal(tools.ToolTear))
		})

		DescribeTable("always disables the tool on a mode switch",
			func(from, to tools.Mode) {
				Expect(c.SetMode(from)).To(Succeed())
				c.NextTool()
				Expect(c.Tool()).NotTo(Equal(tools.ToolDisabled))

				Expect(c.SetMode(to)).To(Succeed())
				Expect(c.Mode()).To(Equal(to))
				Expect(c.Tool()).To(Equal(tools.ToolDisabled))
			},
			Entry("simulate to paint", tools.ModeSimulate, tools.ModePaint),
			Entry("paint to edit", tools.ModePaint, tools.ModeEdit),
			Entry("edit to simulate", tools.ModeEdit, tools.ModeSimulate),
			Entry("same mode", tools.ModePaint, tools.ModePaint),
		)

		It("cycles modes in order", func() {
			c.NextMode()
			Expect(c.Mode()).To(Equal(tools.ModePaint))
			c.NextMode()
			Expect(c.Mode()).To(Equal(tools.ModeEdit))
			c.NextMode()
			Expect(c.Mode()).To(Equal(tools.ModeSimulate))
		})

		It("rejects unknown modes", func() {
			Expect(c.SetMode(tools.Mode(9))).To(MatchError(tools.ErrUnknownMode))
			_, err := tools.ParseMode("weave")
			Expect(err).To(MatchError(tools.ErrUnknownMode))
		})

		It("parses names back from String", func() {
			for _, m := range []tools.Mode{tools.ModeSimulate, tools.ModePaint, tools.ModeEdit} {
				got, err := tools.ParseMode(m.String())
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(m))
			}
			got, err := tools.ParseTool("unpin")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(tools.ToolUnpin))
		})
	})

	Describe("tool cycles", func() {
		It("cycles push, tear, disabled in simulate mode", func() {
			Expect(c.SetMode(tools.ModeSimulate)).To(Succeed())
			Expect(c.NextTool()).To(Equal(tools.ToolPush))
			Expect(c.NextTool()).To(Equal(tools.ToolTear))
			Expect(c.NextTool()).To(Equal(tools.ToolDisabled))
			Expect(c.NextTool()).To(Equal(tools.ToolPush))
		})

		It("cycles pin, unpin, disabled in paint mode", func() {
			Expect(c.SetMode(tools.ModePaint)).To(Succeed())
			Expect(c.NextTool()).To(Equal(tools.ToolPin))
			Expect(c.NextTool()).To(Equal(tools.ToolUnpin))
			Expect(c.NextTool()).To(Equal(tools.ToolDisabled))
		})

		It("cycles select, disabled in edit mode", func() {
			Expect(c.SetMode(tools.ModeEdit)).To(Succeed())
			Expect(c.NextTool()).To(Equal(tools.ToolSelect))
			Expect(c.NextTool()).To(Equal(tools.ToolDisabled))
		})

		It("refuses tools from another mode", func() {
			Expect(c.SetTool(tools.ToolPin)).To(MatchError(tools.ErrToolNotInMode))
			Expect(c.Tool()).To(Equal(tools.ToolTear))
		})
	})

	Describe("push", func() {
		BeforeEach(func() {
			c = tools.NewController(0.7)
			Expect(c.SetTool(tools.ToolPush)).To(Succeed())
		})

		It("nudges nearby free points away by at most one step", func() {
			c.SetPointer(0.3, 0)
			e := c.Apply(s)

			Expect(e.Moved).To(Equal(1))
			p := point(s, 0, 0)
			Expect(p.X).To(BeNumerically("~", -tools.MaxPushStep, 1e-12))
			Expect(p.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(point(s, 0, 1).X).To(Equal(1.0))
		})

		It("leaves pinned points alone", func() {
			c.SetPointer(0.1, -2)
			Expect(c.Apply(s).Moved).To(Equal(0))
			Expect(point(s, -2, 0).X).To(Equal(0.0))
		})

		It("skips a point exactly under the pointer", func() {
			c.SetPointer(0, 0)
			Expect(c.Apply(s).Moved).To(Equal(0))
		})
	})

	Describe("tear", func() {
		It("cuts joints passing under the pointer", func() {
			before := len(s.Joints)
			c.SetPointer(0.5, 0)

			Expect(c.Apply(s).Torn).To(Equal(1))
			Expect(s.Joints).To(HaveLen(before - 1))

			a, _ := s.IndexOf(cloth.GridCoord{I: 0, J: 0})
			b, _ := s.IndexOf(cloth.GridCoord{I: 0, J: 1})
			for _, j := range s.Joints {
				Expect(j.First == a && j.Second == b).To(BeFalse())
			}
		})

		It("measures to the closest point on the segment", func() {
			// Near the bottom-right corner: an unclamped line test would
			// also catch the rest of the bottom row.
			c.SetPointer(1.1, 1.1)
			Expect(c.Apply(s).Torn).To(Equal(2))
		})

		It("never cuts joints between two pinned points", func() {
			before := len(s.Joints)
			c.SetPointer(0.5, -2)

			Expect(c.Apply(s).Torn).To(Equal(0))
			Expect(s.Joints).To(HaveLen(before))
		})

		It("reaches nothing from the parked pointer", func() {
			before := len(s.Joints)
			c.Park(s)

			x, y := c.Pointer()
			Expect(x).To(BeNumerically("~", 2.2, 1e-12))
			Expect(y).To(BeNumerically("~", -3.2, 1e-12))
			Expect(c.Apply(s).Torn).To(Equal(0))
			Expect(s.Joints).To(HaveLen(before))
		})

		It("does nothing when disabled", func() {
			Expect(c.SetMode(tools.ModeSimulate)).To(Succeed())
			c.SetPointer(0.5, 0)
			Expect(c.Apply(s)).To(Equal(tools.Effect{}))
		})
	})

	Describe("pin and unpin", func() {
		BeforeEach(func() {
			Expect(c.SetMode(tools.ModePaint)).To(Succeed())
		})

		It("pins points under the pointer and stops them", func() {
			Expect(c.SetTool(tools.ToolPin)).To(Succeed())
			p := point(s, 0, 0)
			p.PX = -0.5

			c.SetPointer(0.05, 0)
			Expect(c.Apply(s).Pinned).To(Equal(1))
			Expect(p.Pinned).To(BeTrue())
			Expect(p.PX).To(Equal(p.X))
		})

		It("unpins points under the pointer", func() {
			Expect(c.SetTool(tools.ToolUnpin)).To(Succeed())
			c.SetPointer(0, -2)

			Expect(c.Apply(s).Unpinned).To(Equal(1))
			Expect(point(s, -2, 0).Pinned).To(BeFalse())
			Expect(s.PinnedCount()).To(Equal(3))
		})
	})

	Describe("select", func() {
		BeforeEach(func() {
			Expect(c.SetMode(tools.ModeEdit)).To(Succeed())
			Expect(c.SetTool(tools.ToolSelect)).To(Succeed())
		})

		It("selects grid points inside the dragged box", func() {
			c.SetPointer(-0.1, -0.1)
			c.BeginDrag()
			c.SetPointer(1.1, 1.1)

			Expect(c.Apply(s).Selected).To(Equal(4))
			Expect(c.Selection()).To(ConsistOf(
				cloth.GridCoord{I: 0, J: 0}, cloth.GridCoord{I: 0, J: 1},
				cloth.GridCoord{I: 1, J: 0}, cloth.GridCoord{I: 1, J: 1},
			))
		})

		It("keeps the last selection after the drag ends", func() {
			c.SetPointer(1.1, 1.1)
			c.BeginDrag()
			c.SetPointer(-0.1, -0.1)
			c.Apply(s)
			c.EndDrag()

			c.SetPointer(-2, -2)
			c.Apply(s)
			Expect(c.Selection()).To(HaveLen(4))
		})

		It("uses rest positions, not deformed ones", func() {
			point(s, 0, 0).X = 5

			c.SetPointer(-0.1, -0.1)
			c.BeginDrag()
			c.SetPointer(0.1, 0.1)
			c.Apply(s)
			Expect(c.Selection()).To(Equal([]cloth.GridCoord{{I: 0, J: 0}}))
		})

		It("drops the drag on a mode switch", func() {
			c.BeginDrag()
			Expect(c.SetMode(tools.ModeEdit)).To(Succeed())
			Expect(c.Dragging()).To(BeFalse())
		})

		It("pins and unpins the selection in bulk", func() {
			c.SetPointer(-2.1, -2.1)
			c.BeginDrag()
			c.SetPointer(1.1, -0.9)
			c.Apply(s)
			c.EndDrag()
			Expect(c.Selection()).To(HaveLen(8))

			Expect(c.PinSelection(s)).To(Equal(4))
			Expect(s.PinnedCount()).To(Equal(8))

			Expect(c.UnpinSelection(s)).To(Equal(8))
			Expect(s.PinnedCount()).To(Equal(0))
		})
	})
})
