package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func flatAt(b *Board, row, col int, color Color) {
	b.Cells[row*b.N+col] = Stack{{Color: color, Kind: Flat}}
}

func TestRoadDetection(t *testing.T) {
	t.Run("unbroken row wins immediately", func(t *testing.T) {
		gs := midgame(t)
		for col := 0; col < 4; col++ {
			flatAt(gs.Board, 2, col, White)
		}
		gs.Player = White
		require.Equal(t, Ongoing, gs.Status().Outcome, "four of five is not a road")

		_, err := gs.Apply(Move{Type: PlaceMove, Kind: Flat, Square: Square{2, 4}})
		require.NoError(t, err)
		status := gs.Status()
		require.Equal(t, RoadWin, status.Outcome)
		require.Equal(t, White, status.Winner)
	})

	t.Run("standing stones do not carry a road", func(t *testing.T) {
		gs := midgame(t)
		for col := 0; col < 5; col++ {
			flatAt(gs.Board, 2, col, White)
		}
		gs.Board.Cells[2*5+2] = Stack{{Color: White, Kind: Standing}}
		require.False(t, gs.Board.HasRoad(White))
	})

	t.Run("capstones carry a road", func(t *testing.T) {
		gs := midgame(t)
		for col := 0; col < 5; col++ {
			flatAt(gs.Board, 2, col, White)
		}
		gs.Board.Cells[2*5+2] = Stack{{Color: White, Kind: Capstone}}
		require.True(t, gs.Board.HasRoad(White))
	})

	t.Run("bent roads count", func(t *testing.T) {
		gs := midgame(t)
		// Column 1 down to row 2, across to column 3, down to the bottom.
		flatAt(gs.Board, 0, 1, Black)
		flatAt(gs.Board, 1, 1, Black)
		flatAt(gs.Board, 2, 1, Black)
		flatAt(gs.Board, 2, 2, Black)
		flatAt(gs.Board, 2, 3, Black)
		flatAt(gs.Board, 3, 3, Black)
		flatAt(gs.Board, 4, 3, Black)
		require.True(t, gs.Board.HasRoad(Black))
		require.False(t, gs.Board.HasRoad(White))
	})

	t.Run("diagonal adjacency does not connect", func(t *testing.T) {
		gs := midgame(t)
		for i := 0; i < 5; i++ {
			flatAt(gs.Board, i, i, White)
		}
		require.False(t, gs.Board.HasRoad(White))
	})

	t.Run("road beats flat count when both trigger", func(t *testing.T) {
		gs := midgame(t)
		for col := 0; col < 5; col++ {
			flatAt(gs.Board, 0, col, Black)
		}
		gs.Board.Reserves[White] = Reserves{}
		gs.Player = White

		status := gs.Status()
		require.Equal(t, RoadWin, status.Outcome)
		require.Equal(t, Black, status.Winner)
	})

	t.Run("a move completing both roads wins for the mover", func(t *testing.T) {
		gs := midgame(t)
		for col := 0; col < 5; col++ {
			flatAt(gs.Board, 1, col, White)
			flatAt(gs.Board, 3, col, Black)
		}
		gs.Player = Black // White made the last move

		status := gs.Status()
		require.Equal(t, RoadWin, status.Outcome)
		require.Equal(t, White, status.Winner)
	})
}

func TestRoadSymmetry(t *testing.T) {
	build := func() *Board {
		b, _ := NewBoard(5)
		// An L-shaped white road from the left edge to the right edge.
		for col := 0; col < 3; col++ {
			flatAt(b, 1, col, White)
		}
		for row := 1; row < 4; row++ {
			flatAt(b, row, 2, White)
		}
		for col := 2; col < 5; col++ {
			flatAt(b, 3, col, White)
		}
		return b
	}

	t.Run("invariant under 180 degree rotation", func(t *testing.T) {
		b := build()
		rotated, _ := NewBoard(5)
		for row := 0; row < 5; row++ {
			for col := 0; col < 5; col++ {
				rotated.Cells[(4-row)*5+(4-col)] = b.Cells[row*5+col]
			}
		}
		require.True(t, b.HasRoad(White))
		require.True(t, rotated.HasRoad(White))
	})

	t.Run("invariant under color swap", func(t *testing.T) {
		b := build()
		swapped := b.Clone()
		for i, stack := range swapped.Cells {
			for j := range stack {
				swapped.Cells[i][j].Color = stack[j].Color.Opponent()
			}
		}
		require.True(t, b.HasRoad(White))
		require.False(t, b.HasRoad(Black))
		require.True(t, swapped.HasRoad(Black))
		require.False(t, swapped.HasRoad(White))
	})
}

func TestFlatWin(t *testing.T) {
	t.Run("full board counts tops", func(t *testing.T) {
		gs := midgame(t)
		// 13 white tops vs 12 black, interleaved so no road forms.
		pattern := []Color{
			White, Black, White, Black, White,
			Black, White, Black, White, Black,
			White, Black, White, Black, White,
			Black, White, Black, White, Black,
			White, Black, White, Black, White,
		}
		for i, color := range pattern {
			gs.Board.Cells[i] = Stack{{Color: color, Kind: Flat}}
		}

		status := gs.Status()
		require.Equal(t, FlatWin, status.Outcome)
		require.Equal(t, White, status.Winner)
	})

	t.Run("exhausted reserves end the game", func(t *testing.T) {
		gs := midgame(t)
		flatAt(gs.Board, 0, 0, White)
		flatAt(gs.Board, 0, 1, White)
		flatAt(gs.Board, 4, 4, Black)
		gs.Board.Reserves[Black] = Reserves{}

		status := gs.Status()
		require.Equal(t, FlatWin, status.Outcome)
		require.Equal(t, White, status.Winner)
	})

	t.Run("standing tops do not count", func(t *testing.T) {
		gs := midgame(t)
		flatAt(gs.Board, 0, 0, White)
		gs.Board.Cells[0*5+1] = Stack{{Color: Black, Kind: Standing}}
		gs.Board.Cells[0*5+2] = Stack{{Color: Black, Kind: Standing}}
		gs.Board.Reserves[White] = Reserves{}

		status := gs.Status()
		require.Equal(t, FlatWin, status.Outcome)
		require.Equal(t, White, status.Winner)
	})

	t.Run("equal counts draw", func(t *testing.T) {
		gs, err := NewGameState(4)
		require.NoError(t, err)
		gs.Ply = 20
		for i := 0; i < 16; i++ {
			color := White
			if (i+i/4)%2 == 1 {
				color = Black
			}
			gs.Board.Cells[i] = Stack{{Color: color, Kind: Flat}}
		}

		require.Equal(t, Draw, gs.Status().Outcome)
	})

	t.Run("ongoing otherwise", func(t *testing.T) {
		gs := midgame(t, placed(Square{1, 1}, Flat, White))
		require.Equal(t, Ongoing, gs.Status().Outcome)
	})
}
