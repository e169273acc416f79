package models

type UserRole string

const (
	UserRoleSuperadmin UserRole = "superadmin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleCoord      UserRole = "coord"
	UserRoleTechnician UserRole = "tecnico"
	UserRoleClient     UserRole = "cliente"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleSuperadmin, UserRoleAdmin, UserRoleCoord, UserRoleTechnician, UserRoleClient:
		return true
	}
	return false
}

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusSuspended ContractStatus = "suspended"
	ContractStatusFinished  ContractStatus = "finished"
	ContractStatusCancelled ContractStatus = "cancelled"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusSuspended, ContractStatusFinished, ContractStatusCancelled:
		return true
	}
	return false
}

type EquipmentCategory string

const (
	EquipmentCategoryExtinguisher   EquipmentCategory = "extinguisher"
	EquipmentCategoryHydrant        EquipmentCategory = "hydrant"
	EquipmentCategorySprinkler      EquipmentCategory = "sprinkler"
	EquipmentCategoryAlarm          EquipmentCategory = "alarm"
	EquipmentCategoryEmergencyLight EquipmentCategory = "emergency_light"
	EquipmentCategoryFireDoor       EquipmentCategory = "fire_door"
	EquipmentCategoryHose           EquipmentCategory = "hose"
	EquipmentCategoryPump           EquipmentCategory = "pump"
)

func (c EquipmentCategory) Valid() bool {
	switch c {
	case EquipmentCategoryExtinguisher, EquipmentCategoryHydrant, EquipmentCategorySprinkler,
		EquipmentCategoryAlarm, EquipmentCategoryEmergencyLight, EquipmentCategoryFireDoor,
		EquipmentCategoryHose, EquipmentCategoryPump:
		return true
	}
	return false
}

type EquipmentStatus string

const (
	EquipmentStatusActive      EquipmentStatus = "active"
	EquipmentStatusInactive    EquipmentStatus = "inactive"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusExpired     EquipmentStatus = "expired"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusActive, EquipmentStatusInactive, EquipmentStatusMaintenance, EquipmentStatusExpired:
		return true
	}
	return false
}

type InventoryStatus string

const (
	InventoryStatusUpdated  InventoryStatus = "updated"
	InventoryStatusPending  InventoryStatus = "pending"
	InventoryStatusAuditing InventoryStatus = "auditing"
	InventoryStatusOutdated InventoryStatus = "outdated"
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryStatusUpdated, InventoryStatusPending, InventoryStatusAuditing, InventoryStatusOutdated:
		return true
	}
	return false
}

// WorkOrderStatus is shared by inspections and maintenances.
type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderStatusPending, WorkOrderStatusInProgress, WorkOrderStatusCompleted, WorkOrderStatusCancelled:
		return true
	}
	return false
}

type WorkOrderPriority string

const (
	WorkOrderPriorityLow    WorkOrderPriority = "low"
	WorkOrderPriorityMedium WorkOrderPriority = "medium"
	WorkOrderPriorityHigh   WorkOrderPriority = "high"
	WorkOrderPriorityUrgent WorkOrderPriority = "urgent"
)

func (p WorkOrderPriority) Valid() bool {
	switch p {
	case WorkOrderPriorityLow, WorkOrderPriorityMedium, WorkOrderPriorityHigh, WorkOrderPriorityUrgent:
		return true
	}
	return false
}

type MaintenanceType string

const (
	MaintenanceTypePreventive MaintenanceType = "preventive"
	MaintenanceTypeCorrective MaintenanceType = "corrective"
	MaintenanceTypePredictive MaintenanceType = "predictive"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenanceTypePreventive, MaintenanceTypeCorrective, MaintenanceTypePredictive:
		return true
	}
	return false
}

type StandardType string

const (
	StandardTypeNBR  StandardType = "NBR"
	StandardTypeIT   StandardType = "IT"
	StandardTypeNR   StandardType = "NR"
	StandardTypeABNT StandardType = "ABNT"
)

func (t StandardType) Valid() bool {
	switch t {
	case StandardTypeNBR, StandardTypeIT, StandardTypeNR, StandardTypeABNT:
		return true
	}
	return false
}
