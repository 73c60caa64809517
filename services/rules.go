package services

import "matcharena/models"

// beats is the cyclic two-seat rule table: rock beats scissors, scissors
// beats paper, paper beats rock.
var beats = map[models.Move]models.Move{
	models.MoveRock:     models.MoveScissors,
	models.MoveScissors: models.MovePaper,
	models.MovePaper:    models.MoveRock,
}

// turnWinner returns the seat index that won a closed turn, or -1 for a
// tie. The shipped rule table is scoped to exactly two seats; for any
// other capacity no seat ever wins, so larger matches can be created but
// never score until an N-seat table exists.
func turnWinner(t models.Turn) int {
	if len(t) != 2 || !t.Closed() {
		return -1
	}
	a, b := *t[0], *t[1]
	if a == b {
		return -1
	}
	if beats[a] == b {
		return 0
	}
	return 1
}
