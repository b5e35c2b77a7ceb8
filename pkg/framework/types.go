package framework

// NodeInfo contains node information for optimization
type NodeInfo struct {
	Idx         int
	Name        string
	Capacity    float64 // aggregate processing rate, length units per time unit
	CostPerTime float64 // charged per unit of execution time
	CostPerMem  float64 // charged per unit of task memory
	CostPerBw   float64 // charged per unit of task input+output data
}

// TaskInfo contains task information for optimization
type TaskInfo struct {
	Idx        int
	Name       string
	Length     float64 // processing units
	Mem        float64
	InputSize  float64
	OutputSize float64
}

// DataSize is the amount of data moved in and out of the node for the task.
func (t TaskInfo) DataSize() float64 {
	return t.InputSize + t.OutputSize
}
