package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madankc71/Credit-Card-Approval-Prediction/pkg/errors"
)

type paramModel struct{}

func (paramModel) GetParams() map[string]interface{} {
	return map[string]interface{}{"max_depth": 3}
}

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()
	assert.False(t, s.IsFitted())

	err := s.RequireFitted("DecisionTreeClassifier", "Predict")
	require.Error(t, err)
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "DecisionTreeClassifier", nf.ModelName)
	assert.Equal(t, "Predict", nf.Method)

	s.SetDimensions(4, 10)
	s.SetFitted()
	assert.NoError(t, s.RequireFitted("DecisionTreeClassifier", "Predict"))

	nFeatures, nSamples := s.GetDimensions()
	assert.Equal(t, 4, nFeatures)
	assert.Equal(t, 10, nSamples)

	s.Reset()
	assert.False(t, s.IsFitted())
	nFeatures, _ = s.GetDimensions()
	assert.Zero(t, nFeatures)
}

func TestStateManagerCheckFeatures(t *testing.T) {
	s := NewStateManager()
	s.SetDimensions(3, 5)

	assert.NoError(t, s.CheckFeatures("Predict", 3))

	err := s.CheckFeatures("Predict", 2)
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 1, dimErr.Axis)
	assert.Equal(t, 3, dimErr.Expected)
	assert.Equal(t, 2, dimErr.Got)
}

func TestDescribe(t *testing.T) {
	s := NewStateManager()
	s.SetDimensions(2, 8)
	s.SetFitted()

	state := Describe(paramModel{}, s)
	assert.True(t, state.Fitted)
	assert.Equal(t, 2, state.NFeatures)
	assert.Equal(t, 3, state.Params["max_depth"])

	assert.Nil(t, Describe(struct{}{}, s).Params)
}

func TestStateManagerConcurrent(t *testing.T) {
	s := NewStateManager()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				s.SetFitted()
			}
			_ = s.IsFitted()
		}(i)
	}
	wg.Wait()
	assert.True(t, s.IsFitted())
}
