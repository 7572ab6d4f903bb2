package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/robalobadob/wordduel/apps/go-server/internal/game"
	"github.com/robalobadob/wordduel/apps/go-server/internal/lobby"
	"github.com/robalobadob/wordduel/apps/go-server/internal/store"
	"github.com/robalobadob/wordduel/apps/go-server/mocks"
)

// sent is one recorded delivery. Exactly one of conn/group is set.
type sent struct {
	conn  string
	group string
	evt   game.Event
}

// recordingMessenger keeps every delivery and group membership in memory.
type recordingMessenger struct {
	mu     sync.Mutex
	log    []sent
	groups map[string][]string
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{groups: map[string][]string{}}
}

func (m *recordingMessenger) SendToConnection(conn string, evt game.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, sent{conn: conn, evt: evt})
}

func (m *recordingMessenger) SendToGroup(group string, evt game.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = append(m.log, sent{group: group, evt: evt})
}

func (m *recordingMessenger) AddToGroup(conn, group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group] = append(m.groups[group], conn)
}

func (m *recordingMessenger) RemoveGroup(group string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.groups, group)
}

func (m *recordingMessenger) last() sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log[len(m.log)-1]
}

func (m *recordingMessenger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.log)
}

func (m *recordingMessenger) named(name string) []sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sent
	for _, s := range m.log {
		if s.evt.EventName() == name {
			out = append(out, s)
		}
	}
	return out
}

// fixedPicker returns its words in order, repeating the last one.
type fixedPicker struct {
	mu    sync.Mutex
	words []string
}

func (p *fixedPicker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	w := p.words[0]
	if len(p.words) > 1 {
		p.words = p.words[1:]
	}
	return w
}

type fixture struct {
	o     *Orchestrator
	msgr  *recordingMessenger
	lobby *lobby.Lobby
	store store.Store
}

func newFixture(words ...string) *fixture {
	lb := lobby.New()
	m := newRecordingMessenger()
	st := store.NewMemoryStore()
	return &fixture{
		o:     New(lb, m, &fixedPicker{words: words}, st),
		msgr:  m,
		lobby: lb,
		store: st,
	}
}

// join connects and names a player.
func (f *fixture) join(t *testing.T, conn, name string) {
	t.Helper()
	f.o.AddPendingConnection(conn)
	require.NoError(t, f.o.RegisterName(conn, name))
}

// pair joins two players and returns their session.
func (f *fixture) pair(t *testing.T) *game.Session {
	t.Helper()
	f.join(t, "c1", "Alice")
	f.join(t, "c2", "Bob")
	s := f.lobby.GetSessionByPlayer("c1")
	require.NotNil(t, s)
	return s
}

func TestAddPendingConnection_AcknowledgesOnlyThatConnection(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")

	f.o.AddPendingConnection("c1")

	req.Equal(sent{conn: "c1", evt: game.Connected{ConnectionID: "c1"}}, f.msgr.last())
	req.Equal(Stats{Pending: 1}, f.o.Stats())
}

func TestRegisterName_FirstPlayerWaits(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")

	f.join(t, "c1", "Alice")

	req.Equal(1, f.msgr.count()) // only Connected
	req.True(f.lobby.IsWaiting("c1"))
	req.Equal(Stats{Named: 1, Waiting: 1}, f.o.Stats())
}

func TestRegisterName_PairingStartsTheGame(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")

	s := f.pair(t)

	req.ElementsMatch([]string{"c1", "c2"}, f.msgr.groups[s.ID()])
	req.Equal(sent{group: s.ID(), evt: game.GameStarted{
		WordLength:  5,
		Player1Name: "Alice",
		Player2Name: "Bob",
		TurnName:    "Alice",
	}}, f.msgr.last())
	req.Equal(Stats{Named: 2, Sessions: 1}, f.o.Stats())
}

func TestRegisterName_Rejections(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	f.o.AddPendingConnection("c1")

	req.ErrorIs(f.o.RegisterName("c1", "   "), game.ErrInvalidName)
	req.ErrorIs(f.o.RegisterName("ghost", "Casper"), game.ErrUnknownConnection)
	req.NoError(f.o.RegisterName("c1", "Alice"))
	req.ErrorIs(f.o.RegisterName("c1", "Again"), game.ErrUnknownConnection)
	req.Equal(Stats{Named: 1, Waiting: 1}, f.o.Stats())
}

func TestGuess_CorrectLetterBroadcastsIndexes(t *testing.T) {
	req := require.New(t)
	f := newFixture("APPLE")
	s := f.pair(t)

	req.NoError(f.o.Guess(context.Background(), "c1", "p"))

	req.Equal(sent{group: s.ID(), evt: game.Guessed{
		Guess:        "P",
		Message:      "Alice has guessed 'P'!",
		CorrectGuess: true,
		Indexes:      []int{1, 2},
		TurnName:     "Bob",
	}}, f.msgr.last())
}

func TestGuess_WrongLetter(t *testing.T) {
	req := require.New(t)
	f := newFixture("APPLE")
	s := f.pair(t)

	req.NoError(f.o.Guess(context.Background(), "c1", "z"))

	req.Equal(sent{group: s.ID(), evt: game.Guessed{
		Guess:        "Z",
		Message:      "Alice has guessed 'Z'. The word does not contain the letter 'Z'.",
		CorrectGuess: false,
		TurnName:     "Bob",
	}}, f.msgr.last())
}

func TestGuess_RepeatedLetter(t *testing.T) {
	req := require.New(t)
	f := newFixture("APPLE")
	s := f.pair(t)
	ctx := context.Background()
	req.NoError(f.o.Guess(ctx, "c1", "A"))

	req.NoError(f.o.Guess(ctx, "c2", "a"))

	evt := f.msgr.last().evt.(game.Guessed)
	req.False(evt.CorrectGuess)
	req.Nil(evt.Indexes)
	req.Contains(evt.Message, "already guessed")
	req.Equal("Alice", evt.TurnName)
	s.Lock()
	req.Len(s.GuessedLetters(), 1)
	s.Unlock()
}

func TestGuess_WrongWord(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	s := f.pair(t)

	req.NoError(f.o.Guess(context.Background(), "c1", "mouse"))

	req.Equal(sent{group: s.ID(), evt: game.Guessed{
		Guess:        "mouse",
		Message:      "Alice has guessed the word 'mouse'! That was not the word that we are searching!",
		CorrectGuess: false,
		TurnName:     "Bob",
	}}, f.msgr.last())
}

func TestGuess_HouseScenario(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	s := f.pair(t)
	ctx := context.Background()
	conns := []string{"c1", "c2"}

	for i, g := range []string{"H", "Z", "O", "U", "S", "E"} {
		req.NoError(f.o.Guess(ctx, conns[i%2], g))
	}

	req.Equal(sent{group: s.ID(), evt: game.WordGuessed{
		Message:    "Bob has guessed the word 'HOUSE' correctly! Congratulations!",
		WinnerName: "Bob",
		Word:       "HOUSE",
	}}, f.msgr.last())
	s.Lock()
	req.Equal(game.StateSolved, s.State())
	s.Unlock()

	rows, err := f.store.Leaderboard(ctx, 10)
	req.NoError(err)
	req.Equal([]store.LeaderboardRow{{Name: "Bob", Wins: 1}}, rows)
}

func TestGuess_WholeWordWinsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	f.pair(t)

	req.NoError(f.o.Guess(context.Background(), "c1", "  house "))

	evt := f.msgr.last().evt.(game.WordGuessed)
	req.Equal("Alice", evt.WinnerName)
	req.Equal("HOUSE", evt.Word)
}

func TestGuess_StaleGuessAfterSolve(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	f.pair(t)
	ctx := context.Background()
	req.NoError(f.o.Guess(ctx, "c1", "HOUSE"))
	before := f.msgr.count()

	req.ErrorIs(f.o.Guess(ctx, "c2", "Q"), game.ErrSolved)
	req.ErrorIs(f.o.Guess(ctx, "c2", "MOUSE"), game.ErrSolved)

	req.Equal(before, f.msgr.count())
}

func TestGuess_Rejections(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	ctx := context.Background()
	f.join(t, "waiting", "Wanda")
	f.o.AddPendingConnection("pending")

	req.ErrorIs(f.o.Guess(ctx, "waiting", "   "), game.ErrInvalidGuess)
	req.ErrorIs(f.o.Guess(ctx, "waiting", "A"), game.ErrNotYetPaired)
	req.ErrorIs(f.o.Guess(ctx, "pending", "A"), game.ErrNotYetPaired)
	req.ErrorIs(f.o.Guess(ctx, "ghost", "A"), game.ErrUnknownConnection)
	req.ErrorIs(f.o.RematchVote("waiting"), game.ErrNotYetPaired)
	req.ErrorIs(f.o.RematchVote("ghost"), game.ErrUnknownConnection)
}

func TestGuess_OutOfTurnIsIgnored(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	f.pair(t)
	before := f.msgr.count()

	req.ErrorIs(f.o.Guess(context.Background(), "c2", "H"), game.ErrNotYourTurn)

	req.Equal(before, f.msgr.count())
}

func TestRematchVote_NeedsBothPlayers(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE", "GARDEN")
	s := f.pair(t)
	ctx := context.Background()

	req.ErrorIs(f.o.RematchVote("c1"), game.ErrRoundInProgress)
	req.NoError(f.o.Guess(ctx, "c1", "HOUSE"))

	// First vote is announced.
	req.NoError(f.o.RematchVote("c1"))
	req.Equal(sent{group: s.ID(), evt: game.Rematch{}}, f.msgr.last())

	// The same player cannot force the rematch.
	before := f.msgr.count()
	req.ErrorIs(f.o.RematchVote("c1"), game.ErrDuplicateVote)
	req.Equal(before, f.msgr.count())

	// The opponent's vote starts a fresh round.
	req.NoError(f.o.RematchVote("c2"))
	req.Equal(sent{group: s.ID(), evt: game.GameStarted{
		WordLength:  6,
		Player1Name: "Alice",
		Player2Name: "Bob",
		TurnName:    "Alice",
	}}, f.msgr.last())

	s.Lock()
	req.Equal("GARDEN", s.Word())
	req.Equal(game.StateInProgress, s.State())
	req.Empty(s.GuessedLetters())
	req.Equal([2]bool{}, s.Votes())
	req.Equal(2, s.Round())
	s.Unlock()

	req.NoError(f.o.Guess(ctx, "c1", "G"))
}

func TestDisconnect_WaitingPlayer(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	s := f.pair(t)
	f.join(t, "c3", "Carol")
	before := f.msgr.count()

	req.NoError(f.o.Disconnect("c3"))

	req.Equal(before, f.msgr.count())
	req.False(f.lobby.IsWaiting("c3"))
	req.Same(s, f.lobby.GetSessionByPlayer("c1"))
	req.Equal(Stats{Named: 2, Sessions: 1}, f.o.Stats())
	req.ErrorIs(f.o.Disconnect("c3"), game.ErrUnknownConnection)
}

func TestDisconnect_PendingPlayer(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	f.o.AddPendingConnection("c1")

	req.NoError(f.o.Disconnect("c1"))

	req.Equal(Stats{}, f.o.Stats())
	req.ErrorIs(f.o.RegisterName("c1", "Alice"), game.ErrUnknownConnection)
}

func TestDisconnect_PairedPlayerRequeuesOpponent(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE", "GARDEN")
	s := f.pair(t)

	req.NoError(f.o.Disconnect("c1"))

	disc := f.msgr.named(game.EventDisconnected)
	req.Equal([]sent{{conn: "c2", evt: game.Disconnected{}}}, disc)
	req.NotContains(f.msgr.groups, s.ID())
	req.Nil(f.lobby.GetSessionByPlayer("c1"))
	req.Nil(f.lobby.GetSessionByPlayer("c2"))
	_, err := f.lobby.GetSession(s.ID())
	req.ErrorIs(err, lobby.ErrNotFound)
	req.True(f.lobby.IsWaiting("c2"))
	req.Equal(Stats{Named: 1, Waiting: 1}, f.o.Stats())

	// Guesses against the old session are dropped.
	req.ErrorIs(f.o.Guess(context.Background(), "c2", "H"), game.ErrNotYetPaired)

	// Bob pairs with the next arrival like a fresh join, as player1.
	f.join(t, "c3", "Carol")
	next := f.lobby.GetSessionByPlayer("c2")
	req.NotNil(next)
	req.NotEqual(s.ID(), next.ID())
	req.Equal(sent{group: next.ID(), evt: game.GameStarted{
		WordLength:  6,
		Player1Name: "Bob",
		Player2Name: "Carol",
		TurnName:    "Bob",
	}}, f.msgr.last())
}

func TestDisconnect_OpponentPairsWithWaitingPlayerImmediately(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	f.pair(t)
	f.join(t, "c3", "Carol")

	req.NoError(f.o.Disconnect("c2"))

	next := f.lobby.GetSessionByPlayer("c1")
	req.NotNil(next)
	req.Equal("Carol", next.Player1().Name)
	req.Equal("Alice", next.Player2().Name)
	req.Equal(game.EventGameStarted, f.msgr.last().evt.EventName())
}

func TestDisconnect_SessionCommandsAfterTeardown(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	s := f.pair(t)

	req.NoError(f.o.Disconnect("c1"))

	s.Lock()
	req.Equal(game.StateEnded, s.State())
	s.Unlock()
	req.ErrorIs(f.o.Guess(context.Background(), "c1", "H"), game.ErrUnknownConnection)
	req.ErrorIs(f.o.RematchVote("c1"), game.ErrUnknownConnection)
}

func TestConcurrentGuessesAreSerialised(t *testing.T) {
	req := require.New(t)
	f := newFixture("ABCDEFGHIJKLMNOPQRSTUVWXY")
	s := f.pair(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = f.o.Guess(ctx, "c1", "Z") }()
		go func() { defer wg.Done(); _ = f.o.Guess(ctx, "c2", "Z") }()
	}
	wg.Wait()

	s.Lock()
	defer s.Unlock()
	// Every accepted guess flipped the turn exactly once.
	accepted := len(f.msgr.named(game.EventGuessed))
	req.Equal(accepted, s.Guesses())
	req.Equal([]string{"Alice", "Bob"}[accepted%2], s.Turn().Name)
}

func TestConcurrentJoinsAndDisconnects(t *testing.T) {
	req := require.New(t)
	f := newFixture("HOUSE")
	const n = 100

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := fmt.Sprintf("c%d", i)
			f.o.AddPendingConnection(conn)
			_ = f.o.RegisterName(conn, conn)
			if i%3 == 0 {
				_ = f.o.Disconnect(conn)
			}
		}(i)
	}
	wg.Wait()

	st := f.o.Stats()
	req.Zero(st.Pending)
	req.Equal(st.Named, st.Waiting+2*st.Sessions)
	req.LessOrEqual(st.Waiting, 1)
}

func TestGuess_RecordsRoundInStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStore(ctrl)
	m := newRecordingMessenger()
	lb := lobby.New(lobby.WithIDGenerator(func() string { return "s1" }))
	o := New(lb, m, &fixedPicker{words: []string{"HOUSE"}}, st)
	ctx := context.Background()

	// Given a paired session
	for _, p := range [][2]string{{"c1", "Alice"}, {"c2", "Bob"}} {
		o.AddPendingConnection(p[0])
		require.NoError(t, o.RegisterName(p[0], p[1]))
	}

	// Then exactly one round is recorded, even if the store fails
	st.EXPECT().RecordRound(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, r store.RoundResult) error {
		require.Equal(t, "s1", r.SessionID)
		require.Equal(t, 1, r.Round)
		require.Equal(t, "HOUSE", r.Word)
		require.Equal(t, "Bob", r.WinnerName)
		require.Equal(t, "Alice", r.LoserName)
		require.Equal(t, 2, r.Guesses)
		return fmt.Errorf("disk full")
	}).Times(1)

	// When Bob solves it on the second guess
	require.NoError(t, o.Guess(ctx, "c1", "Q"))
	require.NoError(t, o.Guess(ctx, "c2", "house"))
	require.ErrorIs(t, o.Guess(ctx, "c1", "house"), game.ErrSolved)
}

func TestDisconnect_NotifiesOnlyTheOpponent(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMessenger(ctrl)
	lb := lobby.New(lobby.WithIDGenerator(func() string { return "s1" }))
	o := New(lb, m, &fixedPicker{words: []string{"HOUSE"}}, store.NewMemoryStore())

	m.EXPECT().SendToConnection("c1", game.Connected{ConnectionID: "c1"})
	m.EXPECT().SendToConnection("c2", game.Connected{ConnectionID: "c2"})
	m.EXPECT().AddToGroup("c1", "s1")
	m.EXPECT().AddToGroup("c2", "s1")
	m.EXPECT().SendToGroup("s1", gomock.AssignableToTypeOf(game.GameStarted{}))
	for _, p := range [][2]string{{"c1", "Alice"}, {"c2", "Bob"}} {
		o.AddPendingConnection(p[0])
		require.NoError(t, o.RegisterName(p[0], p[1]))
	}

	gomock.InOrder(
		m.EXPECT().SendToConnection("c2", game.Disconnected{}).Times(1),
		m.EXPECT().RemoveGroup("s1").Times(1),
	)

	require.NoError(t, o.Disconnect("c1"))
}

func TestIsNoop(t *testing.T) {
	req := require.New(t)
	req.True(IsNoop(game.ErrSolved))
	req.True(IsNoop(fmt.Errorf("wrapped: %w", game.ErrDuplicateVote)))
	req.False(IsNoop(fmt.Errorf("disk full")))
	req.False(IsNoop(nil))
}
