package components

// SpawnedComponent 标记由步骤生成器创建的实体
type SpawnedComponent struct {
	// Type 生成类型（对应生成模板的 type）
	Type string
}
