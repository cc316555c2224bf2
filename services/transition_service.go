package services

import (
	"errors"
	"fmt"

	"stock-app/config"
	"stock-app/models"
	"stock-app/repositories"
	"stock-app/types"

	"gorm.io/gorm"
)

// TransitionService moves stock between buckets. Every operation runs in one
// database transaction: lock the affected rows in ascending product id order,
// check all preconditions against the locked values, then apply the deltas
// and append exactly one transaction row. Either everything commits or
// nothing does.
type TransitionService struct {
	db    *gorm.DB
	stock *repositories.StockRepository
	bom   *repositories.BomRepository
	trx   *repositories.TransactionRepository
}

func NewTransitionService(db *gorm.DB) *TransitionService {
	return &TransitionService{
		db:    db,
		stock: repositories.NewStockRepository(db),
		bom:   repositories.NewBomRepository(db),
		trx:   repositories.NewTransactionRepository(db),
	}
}

func (s *TransitionService) resolveProduct(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &UnknownItemError{Kind: "product", ID: id}
		}
		return nil, err
	}
	return &product, nil
}

func (s *TransitionService) resolveCombo(id uint) (*models.ComboProduct, error) {
	var combo models.ComboProduct
	if err := s.db.First(&combo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &UnknownItemError{Kind: "combo product", ID: id}
		}
		return nil, err
	}
	return &combo, nil
}

func (s *TransitionService) resolveWarehouse(id uint) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	if err := s.db.First(&warehouse, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &UnknownItemError{Kind: "warehouse", ID: id}
		}
		return nil, err
	}
	return &warehouse, nil
}

func snapshotOf(rec *models.StockRecord) StockSnapshot {
	if rec == nil {
		return StockSnapshot{}
	}
	return StockSnapshot{
		InTransit:    rec.InTransit,
		SemiFinished: rec.SemiFinished,
		Finished:     rec.Finished,
		Shipped:      rec.Shipped,
	}
}

func packagingLines(reqs []models.PackagingRequirement) []RequirementLine {
	lines := make([]RequirementLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, RequirementLine{ProductID: r.PackagingID, Sku: r.Packaging.Sku, PerUnit: r.Quantity})
	}
	return lines
}

func componentLines(components []models.ComboComponent) []RequirementLine {
	lines := make([]RequirementLine, 0, len(components))
	for _, c := range components {
		lines = append(lines, RequirementLine{ProductID: c.BaseProductID, Sku: c.BaseProduct.Sku, PerUnit: c.Quantity})
	}
	return lines
}

func comboPackagingLines(reqs []models.ComboPackagingRequirement) []RequirementLine {
	lines := make([]RequirementLine, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, RequirementLine{ProductID: r.PackagingID, Sku: r.Packaging.Sku, PerUnit: r.Quantity})
	}
	return lines
}

// mapLockErr converts a driver lock-wait failure into the one retryable
// error kind; everything else passes through unchanged.
func mapLockErr(operation string, err error) error {
	if err != nil && repositories.IsLockTimeout(err) {
		return &ContentionTimeoutError{Operation: operation}
	}
	return err
}

// Receive books newly arrived quantity into the in-transit bucket. The stock
// record is created on first receipt. referenceID links back to a purchase
// order when the receipt came from one.
func (s *TransitionService) Receive(productID, warehouseID uint, quantity int, referenceID *uint, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	if _, err := s.resolveProduct(productID); err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}

	var txID types.SnowflakeID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		rec, err := s.stock.LockOrCreateRecord(tx, productID, warehouseID)
		if err != nil {
			return err
		}
		rec.InTransit += quantity
		if err := s.stock.Save(tx, rec); err != nil {
			return err
		}

		t := models.StockTransaction{
			ProductID:   &productID,
			WarehouseID: warehouseID,
			Type:        models.TransitionReceive,
			ToStatus:    models.StatusInTransit,
			Quantity:    quantity,
			ReferenceID: referenceID,
			Notes:       notes,
			CreatedBy:   actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionReceive, err)
}

// ConfirmReceipt moves inspected quantity from in transit to semi finished.
// It is logged as a RECEIVE transition; from/to status tells the two steps
// apart in the trail.
func (s *TransitionService) ConfirmReceipt(productID, warehouseID uint, quantity int, referenceID *uint, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	product, err := s.resolveProduct(productID)
	if err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		records, err := s.stock.LockRecords(tx, warehouseID, []uint{productID})
		if err != nil {
			return err
		}
		rec := records[productID]
		if available, _ := MaxConfirmReceipt(product.Sku, snapshotOf(rec)); available < quantity {
			return &InsufficientStockError{Item: product.Sku, Bucket: models.StatusInTransit, Requested: quantity, Available: available}
		}

		rec.InTransit -= quantity
		rec.SemiFinished += quantity
		if err := s.stock.Save(tx, rec); err != nil {
			return err
		}

		t := models.StockTransaction{
			ProductID:   &productID,
			WarehouseID: warehouseID,
			Type:        models.TransitionReceive,
			FromStatus:  models.StatusInTransit,
			ToStatus:    models.StatusSemiFinished,
			Quantity:    quantity,
			ReferenceID: referenceID,
			Notes:       notes,
			CreatedBy:   actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionReceive, err)
}

// Package moves quantity from semi finished to finished, consuming each
// required packaging material's finished stock at its per-unit rate.
func (s *TransitionService) Package(productID, warehouseID uint, quantity int, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	product, err := s.resolveProduct(productID)
	if err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}
	reqs, err := s.bom.GetPackagingRequirements(productID)
	if err != nil {
		return 0, err
	}
	lines := packagingLines(reqs)

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		ids := []uint{productID}
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		records, err := s.stock.LockRecords(tx, warehouseID, ids)
		if err != nil {
			return err
		}

		own := snapshotOf(records[productID])
		if own.SemiFinished < quantity {
			return &InsufficientStockError{Item: product.Sku, Bucket: models.StatusSemiFinished, Requested: quantity, Available: own.SemiFinished}
		}
		for _, line := range lines {
			need := line.PerUnit * quantity
			have := snapshotOf(records[line.ProductID]).Finished
			if have < need {
				return &InsufficientStockError{Item: line.Sku, Bucket: models.StatusFinished, Requested: need, Available: have}
			}
		}

		rec := records[productID]
		rec.SemiFinished -= quantity
		rec.Finished += quantity
		if err := s.stock.Save(tx, rec); err != nil {
			return err
		}
		for _, line := range lines {
			pack := records[line.ProductID]
			pack.Finished -= line.PerUnit * quantity
			if err := s.stock.Save(tx, pack); err != nil {
				return err
			}
		}

		t := models.StockTransaction{
			ProductID:   &productID,
			WarehouseID: warehouseID,
			Type:        models.TransitionPackage,
			FromStatus:  models.StatusSemiFinished,
			ToStatus:    models.StatusFinished,
			Quantity:    quantity,
			Notes:       notes,
			CreatedBy:   actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionPackage, err)
}

// Unpack reverses Package under the current packaging configuration: finished
// stock moves back to semi finished and the packaging materials are restored.
func (s *TransitionService) Unpack(productID, warehouseID uint, quantity int, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	product, err := s.resolveProduct(productID)
	if err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}
	reqs, err := s.bom.GetPackagingRequirements(productID)
	if err != nil {
		return 0, err
	}
	lines := packagingLines(reqs)

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		ids := []uint{productID}
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		records, err := s.stock.LockRecords(tx, warehouseID, ids)
		if err != nil {
			return err
		}

		own := snapshotOf(records[productID])
		if own.Finished < quantity {
			return &InsufficientStockError{Item: product.Sku, Bucket: models.StatusFinished, Requested: quantity, Available: own.Finished}
		}

		rec := records[productID]
		rec.Finished -= quantity
		rec.SemiFinished += quantity
		if err := s.stock.Save(tx, rec); err != nil {
			return err
		}
		for _, line := range lines {
			pack := records[line.ProductID]
			if pack == nil {
				// Packaging was added to the configuration after the
				// original package run; restore into a fresh record.
				pack, err = s.stock.LockOrCreateRecord(tx, line.ProductID, warehouseID)
				if err != nil {
					return err
				}
			}
			pack.Finished += line.PerUnit * quantity
			if err := s.stock.Save(tx, pack); err != nil {
				return err
			}
		}

		t := models.StockTransaction{
			ProductID:   &productID,
			WarehouseID: warehouseID,
			Type:        models.TransitionUnpack,
			FromStatus:  models.StatusFinished,
			ToStatus:    models.StatusSemiFinished,
			Quantity:    quantity,
			Notes:       notes,
			CreatedBy:   actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionUnpack, err)
}

// Ship moves finished stock to shipped.
func (s *TransitionService) Ship(productID, warehouseID uint, quantity int, notes string, actor int) (types.SnowflakeID, error) {
	return s.shipProduct(productID, warehouseID, quantity, nil, notes, actor)
}

func (s *TransitionService) shipProduct(productID, warehouseID uint, quantity int, batchID *types.SnowflakeID, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	product, err := s.resolveProduct(productID)
	if err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		records, err := s.stock.LockRecords(tx, warehouseID, []uint{productID})
		if err != nil {
			return err
		}
		rec := records[productID]
		own := snapshotOf(rec)
		if own.Finished < quantity {
			return &InsufficientStockError{Item: product.Sku, Bucket: models.StatusFinished, Requested: quantity, Available: own.Finished}
		}

		rec.Finished -= quantity
		rec.Shipped += quantity
		if err := s.stock.Save(tx, rec); err != nil {
			return err
		}

		t := models.StockTransaction{
			ProductID:   &productID,
			WarehouseID: warehouseID,
			Type:        models.TransitionShip,
			FromStatus:  models.StatusFinished,
			ToStatus:    models.StatusShipped,
			Quantity:    quantity,
			BatchID:     batchID,
			Notes:       notes,
			CreatedBy:   actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionShip, err)
}

// Assemble consumes each component's semi finished stock and each combo
// packaging material's finished stock, producing finished combo units. One
// transaction row is written at combo level; component deltas are derivable
// from the BOM.
func (s *TransitionService) Assemble(comboProductID, warehouseID uint, quantity int, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	if _, err := s.resolveCombo(comboProductID); err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}

	components, err := s.bom.GetComboComponents(comboProductID)
	if err != nil {
		return 0, err
	}
	if len(components) == 0 {
		return 0, &ConfigurationMissingError{Reason: fmt.Sprintf("combo product %d has no components", comboProductID)}
	}
	packReqs, err := s.bom.GetComboPackaging(comboProductID)
	if err != nil {
		return 0, err
	}
	compLines := componentLines(components)
	packLines := comboPackagingLines(packReqs)

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		var ids []uint
		for _, line := range compLines {
			ids = append(ids, line.ProductID)
		}
		for _, line := range packLines {
			ids = append(ids, line.ProductID)
		}
		// Base product rows first in ascending id order, the combo row last.
		records, err := s.stock.LockRecords(tx, warehouseID, ids)
		if err != nil {
			return err
		}
		comboRec, err := s.stock.LockComboRecord(tx, comboProductID, warehouseID, true)
		if err != nil {
			return err
		}

		for _, line := range compLines {
			need := line.PerUnit * quantity
			have := snapshotOf(records[line.ProductID]).SemiFinished
			if have < need {
				return &InsufficientStockError{Item: line.Sku, Bucket: models.StatusSemiFinished, Requested: need, Available: have}
			}
		}
		for _, line := range packLines {
			need := line.PerUnit * quantity
			have := snapshotOf(records[line.ProductID]).Finished
			if have < need {
				return &InsufficientStockError{Item: line.Sku, Bucket: models.StatusFinished, Requested: need, Available: have}
			}
		}

		for _, line := range compLines {
			rec := records[line.ProductID]
			rec.SemiFinished -= line.PerUnit * quantity
			if err := s.stock.Save(tx, rec); err != nil {
				return err
			}
		}
		for _, line := range packLines {
			rec := records[line.ProductID]
			rec.Finished -= line.PerUnit * quantity
			if err := s.stock.Save(tx, rec); err != nil {
				return err
			}
		}
		comboRec.Finished += quantity
		if err := s.stock.Save(tx, comboRec); err != nil {
			return err
		}

		t := models.StockTransaction{
			ComboProductID: &comboProductID,
			WarehouseID:    warehouseID,
			Type:           models.TransitionAssemble,
			ToStatus:       models.StatusFinished,
			Quantity:       quantity,
			Notes:          notes,
			CreatedBy:      actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionAssemble, err)
}

// Disassemble reverses Assemble under the current BOM: finished combo units
// are taken apart, restoring component semi finished stock and combo-level
// packaging.
func (s *TransitionService) Disassemble(comboProductID, warehouseID uint, quantity int, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	combo, err := s.resolveCombo(comboProductID)
	if err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}

	components, err := s.bom.GetComboComponents(comboProductID)
	if err != nil {
		return 0, err
	}
	if len(components) == 0 {
		return 0, &ConfigurationMissingError{Reason: fmt.Sprintf("combo product %d has no components", comboProductID)}
	}
	packReqs, err := s.bom.GetComboPackaging(comboProductID)
	if err != nil {
		return 0, err
	}
	compLines := componentLines(components)
	packLines := comboPackagingLines(packReqs)

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		var ids []uint
		for _, line := range compLines {
			ids = append(ids, line.ProductID)
		}
		for _, line := range packLines {
			ids = append(ids, line.ProductID)
		}
		records, err := s.stock.LockRecords(tx, warehouseID, ids)
		if err != nil {
			return err
		}
		comboRec, err := s.stock.LockComboRecord(tx, comboProductID, warehouseID, false)
		if err != nil {
			return err
		}

		available := 0
		if comboRec != nil {
			available = comboRec.Finished
		}
		if available < quantity {
			return &InsufficientStockError{Item: combo.Sku, Bucket: models.StatusFinished, Requested: quantity, Available: available}
		}

		comboRec.Finished -= quantity
		if err := s.stock.Save(tx, comboRec); err != nil {
			return err
		}
		for _, line := range compLines {
			rec := records[line.ProductID]
			if rec == nil {
				rec, err = s.stock.LockOrCreateRecord(tx, line.ProductID, warehouseID)
				if err != nil {
					return err
				}
			}
			rec.SemiFinished += line.PerUnit * quantity
			if err := s.stock.Save(tx, rec); err != nil {
				return err
			}
		}
		for _, line := range packLines {
			rec := records[line.ProductID]
			if rec == nil {
				rec, err = s.stock.LockOrCreateRecord(tx, line.ProductID, warehouseID)
				if err != nil {
					return err
				}
			}
			rec.Finished += line.PerUnit * quantity
			if err := s.stock.Save(tx, rec); err != nil {
				return err
			}
		}

		t := models.StockTransaction{
			ComboProductID: &comboProductID,
			WarehouseID:    warehouseID,
			Type:           models.TransitionDisassemble,
			FromStatus:     models.StatusFinished,
			Quantity:       quantity,
			Notes:          notes,
			CreatedBy:      actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionDisassemble, err)
}

// ShipCombo moves finished combo units to shipped.
func (s *TransitionService) ShipCombo(comboProductID, warehouseID uint, quantity int, notes string, actor int) (types.SnowflakeID, error) {
	return s.shipCombo(comboProductID, warehouseID, quantity, nil, notes, actor)
}

func (s *TransitionService) shipCombo(comboProductID, warehouseID uint, quantity int, batchID *types.SnowflakeID, notes string, actor int) (types.SnowflakeID, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	combo, err := s.resolveCombo(comboProductID)
	if err != nil {
		return 0, err
	}
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, err
	}

	var txID types.SnowflakeID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		s.stock.SetLockTimeout(tx, config.LockTimeout)

		comboRec, err := s.stock.LockComboRecord(tx, comboProductID, warehouseID, false)
		if err != nil {
			return err
		}
		available := 0
		if comboRec != nil {
			available = comboRec.Finished
		}
		if available < quantity {
			return &InsufficientStockError{Item: combo.Sku, Bucket: models.StatusFinished, Requested: quantity, Available: available}
		}

		comboRec.Finished -= quantity
		comboRec.Shipped += quantity
		if err := s.stock.Save(tx, comboRec); err != nil {
			return err
		}

		t := models.StockTransaction{
			ComboProductID: &comboProductID,
			WarehouseID:    warehouseID,
			Type:           models.TransitionShip,
			FromStatus:     models.StatusFinished,
			ToStatus:       models.StatusShipped,
			Quantity:       quantity,
			BatchID:        batchID,
			Notes:          notes,
			CreatedBy:      actor,
		}
		if err := s.trx.Append(tx, &t); err != nil {
			return err
		}
		txID = t.ID
		return nil
	})
	return txID, mapLockErr(models.TransitionShip, err)
}

// MaxQuantity answers "how many units could this transition move right now"
// from an unlocked read. The answer is advisory: concurrent transitions may
// change the real bound before the caller acts on it.
func (s *TransitionService) MaxQuantity(transition string, productID, comboProductID, warehouseID uint) (int, string, error) {
	if _, err := s.resolveWarehouse(warehouseID); err != nil {
		return 0, "", err
	}

	switch transition {
	case models.TransitionReceive:
		max, factor := MaxReceive()
		return max, factor, nil

	case "CONFIRM_RECEIPT":
		product, err := s.resolveProduct(productID)
		if err != nil {
			return 0, "", err
		}
		rec, err := s.stock.GetRecord(productID, warehouseID)
		if err != nil {
			return 0, "", err
		}
		max, factor := MaxConfirmReceipt(product.Sku, snapshotOf(rec))
		return max, factor, nil

	case models.TransitionPackage:
		product, err := s.resolveProduct(productID)
		if err != nil {
			return 0, "", err
		}
		reqs, err := s.bom.GetPackagingRequirements(productID)
		if err != nil {
			return 0, "", err
		}
		lines := packagingLines(reqs)
		ids := make([]uint, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		packRecords, err := s.stock.GetRecords(warehouseID, ids)
		if err != nil {
			return 0, "", err
		}
		rec, err := s.stock.GetRecord(productID, warehouseID)
		if err != nil {
			return 0, "", err
		}
		snaps := make(map[uint]StockSnapshot, len(packRecords))
		for id, r := range packRecords {
			rc := r
			snaps[id] = snapshotOf(&rc)
		}
		max, factor := MaxPackage(product.Sku, snapshotOf(rec), lines, snaps)
		return max, factor, nil

	case models.TransitionUnpack:
		product, err := s.resolveProduct(productID)
		if err != nil {
			return 0, "", err
		}
		rec, err := s.stock.GetRecord(productID, warehouseID)
		if err != nil {
			return 0, "", err
		}
		max, factor := MaxUnpack(product.Sku, snapshotOf(rec))
		return max, factor, nil

	case models.TransitionShip:
		if comboProductID != 0 {
			combo, err := s.resolveCombo(comboProductID)
			if err != nil {
				return 0, "", err
			}
			rec, err := s.stock.GetComboRecord(comboProductID, warehouseID)
			if err != nil {
				return 0, "", err
			}
			snap := StockSnapshot{}
			if rec != nil {
				snap.Finished = rec.Finished
				snap.Shipped = rec.Shipped
			}
			max, factor := MaxShipCombo(combo.Sku, snap)
			return max, factor, nil
		}
		product, err := s.resolveProduct(productID)
		if err != nil {
			return 0, "", err
		}
		rec, err := s.stock.GetRecord(productID, warehouseID)
		if err != nil {
			return 0, "", err
		}
		max, factor := MaxShip(product.Sku, snapshotOf(rec))
		return max, factor, nil

	case models.TransitionAssemble:
		if _, err := s.resolveCombo(comboProductID); err != nil {
			return 0, "", err
		}
		components, err := s.bom.GetComboComponents(comboProductID)
		if err != nil {
			return 0, "", err
		}
		packReqs, err := s.bom.GetComboPackaging(comboProductID)
		if err != nil {
			return 0, "", err
		}
		compLines := componentLines(components)
		packLines := comboPackagingLines(packReqs)

		var ids []uint
		for _, line := range compLines {
			ids = append(ids, line.ProductID)
		}
		for _, line := range packLines {
			ids = append(ids, line.ProductID)
		}
		records, err := s.stock.GetRecords(warehouseID, ids)
		if err != nil {
			return 0, "", err
		}
		snaps := make(map[uint]StockSnapshot, len(records))
		for id, r := range records {
			rc := r
			snaps[id] = snapshotOf(&rc)
		}
		max, factor := MaxAssemble(compLines, snaps, packLines, snaps)
		return max, factor, nil

	case models.TransitionDisassemble:
		combo, err := s.resolveCombo(comboProductID)
		if err != nil {
			return 0, "", err
		}
		rec, err := s.stock.GetComboRecord(comboProductID, warehouseID)
		if err != nil {
			return 0, "", err
		}
		snap := StockSnapshot{}
		if rec != nil {
			snap.Finished = rec.Finished
			snap.Shipped = rec.Shipped
		}
		max, factor := MaxDisassemble(combo.Sku, snap)
		return max, factor, nil
	}

	return 0, "", fmt.Errorf("unknown transition: %s", transition)
}
