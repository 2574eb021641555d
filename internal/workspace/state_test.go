package workspace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestBeginGenerationRequiresBothInputs(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		jd      string
		missing []string
	}{
		{name: "both empty", missing: []string{"rawExperience", "jobDescription"}},
		{name: "no experience", jd: "Go developer", missing: []string{"rawExperience"}},
		{name: "whitespace jd", raw: "built things", jd: " \n\t", missing: []string{"jobDescription"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			st := State{RawExperience: tt.raw, JobDescription: tt.jd, Document: "D1"}
			seq, err := st.BeginGeneration()

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.missing, vErr.Fields)
			assert.Zero(t, seq)
			assert.Equal(t, MsgMissingInputs, st.ErrorMessage)
			assert.False(t, st.GeneratingDocument)
			assert.Zero(t, st.DocumentSeq)
			assert.Equal(t, "D1", st.Document)
		})
	}
}

func TestGenerationLifecycle(t *testing.T) {
	st := State{RawExperience: "exp", JobDescription: "jd", ErrorMessage: MsgAnswerFailed}

	seq, err := st.BeginGeneration()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), seq)
	assert.True(t, st.GeneratingDocument)
	assert.Empty(t, st.ErrorMessage)

	require.True(t, st.ResolveGeneration(seq, "D1"))
	assert.Equal(t, "D1", st.Document)
	assert.False(t, st.GeneratingDocument)

	seq, err = st.BeginGeneration()
	require.NoError(t, err)
	assert.Equal(t, "D1", st.Document, "previous document stays visible while pending")

	require.True(t, st.RejectGeneration(seq))
	assert.Equal(t, MsgGenerateFailed, st.ErrorMessage)
	assert.False(t, st.GeneratingDocument)
	assert.Equal(t, "D1", st.Document)
}

func TestOutOfOrderResponsesKeepLatest(t *testing.T) {
	st := State{RawExperience: "exp", JobDescription: "jd"}
	r1, err := st.BeginGeneration()
	require.NoError(t, err)
	r2, err := st.BeginGeneration()
	require.NoError(t, err)

	require.True(t, st.ResolveGeneration(r2, "from R2"))
	assert.False(t, st.GeneratingDocument)

	assert.False(t, st.ResolveGeneration(r1, "from R1"))
	assert.False(t, st.RejectGeneration(r1))
	assert.Equal(t, "from R2", st.Document)
	assert.Empty(t, st.ErrorMessage)
}

func TestStaleResponseDoesNotClearPending(t *testing.T) {
	st := State{RawExperience: "exp", JobDescription: "jd"}
	r1, _ := st.BeginGeneration()
	_, _ = st.BeginGeneration()

	assert.False(t, st.ResolveGeneration(r1, "old"))
	assert.True(t, st.GeneratingDocument, "pending until the latest request resolves")
	assert.Empty(t, st.Document)
}

func TestBeginAnswerBlankQuestionIsNoop(t *testing.T) {
	st := State{Question: "   ", ErrorMessage: MsgGenerateFailed, Answer: "A0"}
	seq, ok := st.BeginAnswer()
	assert.False(t, ok)
	assert.Zero(t, seq)
	assert.False(t, st.Answering)
	assert.Equal(t, MsgGenerateFailed, st.ErrorMessage)
	assert.Equal(t, "A0", st.Answer)
}

func TestAnswerLifecycle(t *testing.T) {
	st := State{Question: "How do I stand out?"}
	seq, ok := st.BeginAnswer()
	require.True(t, ok)
	assert.True(t, st.Answering)

	long := "word "
	for i := 0; i < 300; i++ {
		long += "word "
	}
	require.True(t, st.ResolveAnswer(seq, long))
	assert.Equal(t, long, st.Answer, "answers are stored unmodified")
	assert.False(t, st.Answering)

	seq, ok = st.BeginAnswer()
	require.True(t, ok)
	require.True(t, st.RejectAnswer(seq))
	assert.Equal(t, MsgAnswerFailed, st.ErrorMessage)
	assert.Equal(t, long, st.Answer)
}

func TestUseCasesAreIndependent(t *testing.T) {
	st := State{RawExperience: "exp", JobDescription: "jd", Question: "q"}
	dseq, err := st.BeginGeneration()
	require.NoError(t, err)
	aseq, ok := st.BeginAnswer()
	require.True(t, ok)
	assert.True(t, st.GeneratingDocument)
	assert.True(t, st.Answering)

	require.True(t, st.ResolveAnswer(aseq, "short"))
	assert.True(t, st.GeneratingDocument)
	require.True(t, st.ResolveGeneration(dseq, "doc"))
	assert.False(t, st.Answering)
}

func TestSetInputsPartial(t *testing.T) {
	st := State{RawExperience: "a", JobDescription: "b", Question: "c"}
	st.SetInputs(Inputs{JobDescription: strPtr("new jd"), Question: strPtr("")})
	assert.Equal(t, "a", st.RawExperience)
	assert.Equal(t, "new jd", st.JobDescription)
	assert.Empty(t, st.Question)
}
