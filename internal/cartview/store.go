package cartview

import "sync"

// Store は楽観的カートの置き場。
// アクションは即時に適用し、サーバーの応答が来たらReconcileで
// まるごと置き換える（last write wins。マージはしない）。
type Store struct {
	mu         sync.Mutex
	cart       Cart
	nextTempID int64
}

func NewStore(initial Cart) *Store {
	return &Store{
		cart:       initial,
		nextTempID: -1,
	}
}

// 現在の楽観的カートのコピー
func (s *Store) Cart() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// 追加を即時適用。プレースホルダIDはここで採番する（負数で単調減少）。
func (s *Store) AddItem(p ProductInfo, quantity int64) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	tempID := s.nextTempID
	s.nextTempID--

	s.cart = Reduce(s.cart, AddItem{Product: p, Quantity: quantity, TempID: tempID})
	return s.snapshot()
}

func (s *Store) UpdateQuantity(itemID int64, quantity int64) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Reduce(s.cart, UpdateQuantity{ItemID: itemID, Quantity: quantity})
	return s.snapshot()
}

func (s *Store) RemoveItem(itemID int64) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Reduce(s.cart, RemoveItem{ItemID: itemID})
	return s.snapshot()
}

func (s *Store) Clear() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Reduce(s.cart, ClearCart{})
	return s.snapshot()
}

// Reconcile はサーバー確定のカートで楽観的ビューを置き換える。
// 応答の到着順がどうであれ、最後に来たサーバー応答が勝つ。
func (s *Store) Reconcile(server Cart) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = Cart{
		ID:    server.ID,
		Lines: copyLines(server.Lines),
		Total: recompute(server.Lines),
	}
	return s.snapshot()
}

func (s *Store) snapshot() Cart {
	return Cart{
		ID:    s.cart.ID,
		Lines: copyLines(s.cart.Lines),
		Total: s.cart.Total,
	}
}
