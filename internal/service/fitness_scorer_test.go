package service

import (
	"testing"

	"fitquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workoutWith(exercises ...model.WorkoutExercise) *model.Workout {
	return &model.Workout{Exercises: exercises}
}

func exercise(name string, sets, reps int, weight float64) model.WorkoutExercise {
	return model.WorkoutExercise{Name: name, Sets: sets, Reps: reps, Weight: weight}
}

func TestScoreFitnessNewExercise(t *testing.T) {
	today := workoutWith(exercise("Bench Press", 3, 10, 60))

	score := ScoreFitness(today, nil)

	assert.Equal(t, 25, score.BaseXP)
	assert.Equal(t, 15, score.ProgressiveXP)
	assert.Equal(t, 40, score.TotalXP)
	require.Len(t, score.Details, 1)
	assert.Equal(t, "new exercise", score.Details[0].Note)
}

func TestScoreFitnessImprovementBuckets(t *testing.T) {
	// 上次容量 3x10x100 = 3000
	history := []model.Workout{*workoutWith(exercise("Squat", 3, 10, 100))}

	cases := []struct {
		name   string
		weight float64
		wantXP int
	}{
		{"10% improvement", 110, 10},     // +10%
		{"20% improvement", 120, 20},     // +20%
		{"25% rounds up and caps", 125, 25}, // 2.5档就近取整为3档，30封顶到25
		{"100% capped", 200, 25},
		{"unchanged", 100, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			today := workoutWith(exercise("Squat", 3, 10, c.weight))
			score := ScoreFitness(today, history)
			require.Len(t, score.Details, 1)
			assert.Equal(t, c.wantXP, score.Details[0].XP)
			assert.Equal(t, 25+c.wantXP, score.TotalXP)
		})
	}
}

func TestScoreFitnessDeclineBuckets(t *testing.T) {
	history := []model.Workout{*workoutWith(exercise("Deadlift", 3, 10, 100))}

	cases := []struct {
		name   string
		weight float64
		wantXP int
	}{
		{"20% decline", 80, -5},
		{"40% decline", 60, -10},
		{"50% rounds up and caps", 50, -15}, // 2.5档就近取整为3档，-15封顶
		{"90% decline capped", 10, -15},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			today := workoutWith(exercise("Deadlift", 3, 10, c.weight))
			score := ScoreFitness(today, history)
			require.Len(t, score.Details, 1)
			assert.Equal(t, c.wantXP, score.Details[0].XP)
		})
	}
}

func TestScoreFitnessTotalNeverNegative(t *testing.T) {
	var exercises []model.WorkoutExercise
	var history []model.Workout
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for _, n := range names {
		exercises = append(exercises, exercise(n, 3, 10, 10))
		history = append(history, *workoutWith(exercise(n, 3, 10, 100)))
	}

	score := ScoreFitness(workoutWith(exercises...), history)

	// 8个动作全部大幅退步：25 - 8*15 = -95，兜底为0
	assert.Equal(t, -120, score.ProgressiveXP)
	assert.Equal(t, 0, score.TotalXP)
}

func TestScoreFitnessMatchesExerciseNameCaseInsensitive(t *testing.T) {
	history := []model.Workout{*workoutWith(exercise("bench press", 3, 10, 100))}
	today := workoutWith(exercise("Bench Press", 3, 10, 110))

	score := ScoreFitness(today, history)
	require.Len(t, score.Details, 1)
	assert.Equal(t, 10, score.Details[0].XP)
	assert.NotEqual(t, "new exercise", score.Details[0].Note)
}

func TestScoreFitnessUsesMostRecentOccurrence(t *testing.T) {
	// history按从新到旧排列，应取第一条匹配
	history := []model.Workout{
		*workoutWith(exercise("Row", 3, 10, 100)),
		*workoutWith(exercise("Row", 3, 10, 50)),
	}
	today := workoutWith(exercise("Row", 3, 10, 110))

	score := ScoreFitness(today, history)
	require.Len(t, score.Details, 1)
	assert.InDelta(t, 10.0, score.Details[0].ChangePercent, 0.01)
}

func TestScoreFitnessPreviousZeroVolume(t *testing.T) {
	history := []model.Workout{*workoutWith(exercise("Plank", 0, 0, 0))}
	today := workoutWith(exercise("Plank", 3, 1, 0))

	score := ScoreFitness(today, history)
	require.Len(t, score.Details, 1)
	assert.Equal(t, 0, score.Details[0].XP)
	assert.Equal(t, 25, score.TotalXP)
}

func TestBodyweightVolumeUsesUnitWeight(t *testing.T) {
	ex := exercise("Pull Up", 3, 10, 0)
	assert.Equal(t, 30.0, ex.Volume())
}
