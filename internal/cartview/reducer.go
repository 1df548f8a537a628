// Package cartview はサーバー確認前にUIへ見せる楽観的カートの
// 状態遷移を持つ。純粋なreducerと、それを抱えるStoreからなる。
// ここの状態は投影であって正ではない。正はサーバー側のカート。
package cartview

import "github.com/shopspring/decimal"

// 楽観的ビューが必要とする商品情報
type ProductInfo struct {
	ID     int64
	Title  string
	Price  decimal.Decimal
	ImgSrc string
}

// カートの1行。
// ItemIDはサーバー採番のID、または確認待ちのプレースホルダ（負数）。
type Line struct {
	ItemID    int64
	ProductID int64
	Quantity  int64
	Product   ProductInfo
}

// 楽観的カート
type Cart struct {
	ID    int64
	Lines []Line
	Total decimal.Decimal
}

// 状態遷移のアクション
type Action interface {
	isAction()
}

// 追加。既存商品なら数量加算、新規ならTempIDで行を足す。
type AddItem struct {
	Product  ProductInfo
	Quantity int64
	// プレースホルダID（負数）。サーバー採番のIDと衝突しない。
	TempID int64
}

// 数量変更。IDが無ければ何もしない。
type UpdateQuantity struct {
	ItemID   int64
	Quantity int64
}

// 行削除。IDが無ければ何もしない。
type RemoveItem struct {
	ItemID int64
}

type ClearCart struct{}

func (AddItem) isAction()        {}
func (UpdateQuantity) isAction() {}
func (RemoveItem) isAction()     {}
func (ClearCart) isAction()      {}

// Reduce は (現在の楽観的カート, アクション) → 次の楽観的カート。
// 純粋関数。引数のカートは変更しない。
// totalは遷移のたびに明細から計算し直す。差分更新はしない。
func Reduce(state Cart, a Action) Cart {
	switch act := a.(type) {
	case AddItem:
		lines := copyLines(state.Lines)

		found := false
		for i := range lines {
			if lines[i].ProductID == act.Product.ID {
				lines[i].Quantity += act.Quantity
				found = true
				break
			}
		}

		if !found {
			lines = append(lines, Line{
				ItemID:    act.TempID,
				ProductID: act.Product.ID,
				Quantity:  act.Quantity,
				Product:   act.Product,
			})
		}

		return Cart{ID: state.ID, Lines: lines, Total: recompute(lines)}

	case UpdateQuantity:
		lines := copyLines(state.Lines)
		for i := range lines {
			if lines[i].ItemID == act.ItemID {
				lines[i].Quantity = act.Quantity
				break
			}
		}
		return Cart{ID: state.ID, Lines: lines, Total: recompute(lines)}

	case RemoveItem:
		lines := make([]Line, 0, len(state.Lines))
		for _, l := range state.Lines {
			if l.ItemID == act.ItemID {
				continue
			}
			lines = append(lines, l)
		}
		return Cart{ID: state.ID, Lines: lines, Total: recompute(lines)}

	case ClearCart:
		return Cart{ID: state.ID, Lines: []Line{}, Total: decimal.Zero}

	default:
		return state
	}
}

// 単価×数量のdecimal和
func recompute(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Product.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
