package services

import "sort"

const (
	// totalQuestions caps the number of AI questions per interview.
	totalQuestions = 10

	codingQuestionCount = 2
	resumeQuestionCount = 4
)

type questionPlan struct {
	Coding []int
	Resume []int
}

// newQuestionPlan assigns question slots to the coding and resume
// categories. Slots are drawn from [2,9]: slot 1 is always the opening
// question and slot 10 is left free so the plan never forces a category
// onto the final turn. Rejection sampling keeps the two sets disjoint.
// randInt must behave like rand.Intn.
func newQuestionPlan(randInt func(n int) int, withResume bool) questionPlan {
	taken := make(map[int]struct{}, codingQuestionCount+resumeQuestionCount)

	draw := func(count int) []int {
		out := make([]int, 0, count)
		for len(out) < count {
			pos := randInt(totalQuestions-2) + 2 // slots 2..9
			if _, dup := taken[pos]; dup {
				continue
			}
			taken[pos] = struct{}{}
			out = append(out, pos)
		}
		sort.Ints(out)
		return out
	}

	plan := questionPlan{Coding: draw(codingQuestionCount), Resume: []int{}}
	if withResume {
		plan.Resume = draw(resumeQuestionCount)
	}
	return plan
}

func containsSlot(plan []int, slot int) bool {
	for _, p := range plan {
		if p == slot {
			return true
		}
	}
	return false
}
