package store

import "strconv"

// JobRow is the on-disk Parquet schema for one sacct row. Column names and
// order follow `sacct -o ALL` exactly; the numeric columns are typed int64
// and left null when sacct prints them empty, everything else stays a
// string in its sacct encoding.
type JobRow struct {
	Account             string `parquet:"Account"`
	AdminComment        string `parquet:"AdminComment"`
	AllocCPUS           *int64 `parquet:"AllocCPUS,optional"`
	AllocNodes          *int64 `parquet:"AllocNodes,optional"`
	AllocTRES           string `parquet:"AllocTRES"`
	AssocID             *int64 `parquet:"AssocID,optional"`
	AveCPU              string `parquet:"AveCPU"`
	AveCPUFreq          string `parquet:"AveCPUFreq"`
	AveDiskRead         string `parquet:"AveDiskRead"`
	AveDiskWrite        string `parquet:"AveDiskWrite"`
	AvePages            *int64 `parquet:"AvePages,optional"`
	AveRSS              string `parquet:"AveRSS"`
	AveVMSize           string `parquet:"AveVMSize"`
	BlockID             string `parquet:"BlockID"`
	Cluster             string `parquet:"Cluster"`
	Comment             string `parquet:"Comment"`
	Constraints         string `parquet:"Constraints"`
	ConsumedEnergy      *int64 `parquet:"ConsumedEnergy,optional"`
	ConsumedEnergyRaw   *int64 `parquet:"ConsumedEnergyRaw,optional"`
	Container           string `parquet:"Container"`
	CPUTime             string `parquet:"CPUTime"`
	CPUTimeRAW          *int64 `parquet:"CPUTimeRAW,optional"`
	DBIndex             *int64 `parquet:"DBIndex,optional"`
	DerivedExitCode     string `parquet:"DerivedExitCode"`
	Elapsed             string `parquet:"Elapsed"`
	ElapsedRaw          *int64 `parquet:"ElapsedRaw,optional"`
	Eligible            string `parquet:"Eligible"`
	End                 string `parquet:"End"`
	ExitCode            string `parquet:"ExitCode"`
	Flags               string `parquet:"Flags"`
	GID                 *int64 `parquet:"GID,optional"`
	Group               string `parquet:"Group"`
	JobID               string `parquet:"JobID"`
	JobIDRaw            string `parquet:"JobIDRaw"`
	JobName             string `parquet:"JobName"`
	Layout              string `parquet:"Layout"`
	MaxDiskRead         string `parquet:"MaxDiskRead"`
	MaxDiskReadNode     string `parquet:"MaxDiskReadNode"`
	MaxDiskReadTask     *int64 `parquet:"MaxDiskReadTask,optional"`
	MaxDiskWrite        string `parquet:"MaxDiskWrite"`
	MaxDiskWriteNode    string `parquet:"MaxDiskWriteNode"`
	MaxDiskWriteTask    *int64 `parquet:"MaxDiskWriteTask,optional"`
	MaxPages            *int64 `parquet:"MaxPages,optional"`
	MaxPagesNode        string `parquet:"MaxPagesNode"`
	MaxPagesTask        *int64 `parquet:"MaxPagesTask,optional"`
	MaxRSS              string `parquet:"MaxRSS"`
	MaxRSSNode          string `parquet:"MaxRSSNode"`
	MaxRSSTask          *int64 `parquet:"MaxRSSTask,optional"`
	MaxVMSize           string `parquet:"MaxVMSize"`
	MaxVMSizeNode       string `parquet:"MaxVMSizeNode"`
	MaxVMSizeTask       *int64 `parquet:"MaxVMSizeTask,optional"`
	McsLabel            string `parquet:"McsLabel"`
	MinCPU              string `parquet:"MinCPU"`
	MinCPUNode          string `parquet:"MinCPUNode"`
	MinCPUTask          *int64 `parquet:"MinCPUTask,optional"`
	NCPUS               *int64 `parquet:"NCPUS,optional"`
	NNodes              *int64 `parquet:"NNodes,optional"`
	NodeList            string `parquet:"NodeList"`
	NTasks              *int64 `parquet:"NTasks,optional"`
	Partition           string `parquet:"Partition"`
	Priority            *int64 `parquet:"Priority,optional"`
	QOS                 string `parquet:"QOS"`
	QOSRAW              *int64 `parquet:"QOSRAW,optional"`
	Reason              string `parquet:"Reason"`
	ReqCPUFreq          string `parquet:"ReqCPUFreq"`
	ReqCPUFreqGov       string `parquet:"ReqCPUFreqGov"`
	ReqCPUFreqMax       string `parquet:"ReqCPUFreqMax"`
	ReqCPUFreqMin       string `parquet:"ReqCPUFreqMin"`
	ReqCPUS             *int64 `parquet:"ReqCPUS,optional"`
	ReqMem              string `parquet:"ReqMem"`
	ReqNodes            *int64 `parquet:"ReqNodes,optional"`
	ReqTRES             string `parquet:"ReqTRES"`
	Reservation         string `parquet:"Reservation"`
	ReservationId       string `parquet:"ReservationId"`
	Reserved            string `parquet:"Reserved"`
	ResvCPU             string `parquet:"ResvCPU"`
	ResvCPURAW          *int64 `parquet:"ResvCPURAW,optional"`
	Start               string `parquet:"Start"`
	State               string `parquet:"State"`
	Submit              string `parquet:"Submit"`
	SubmitLine          string `parquet:"SubmitLine"`
	Suspended           string `parquet:"Suspended"`
	SystemComment       string `parquet:"SystemComment"`
	SystemCPU           string `parquet:"SystemCPU"`
	Timelimit           string `parquet:"Timelimit"`
	TimelimitRaw        string `parquet:"TimelimitRaw"`
	TotalCPU            string `parquet:"TotalCPU"`
	TRESUsageInAve      string `parquet:"TRESUsageInAve"`
	TRESUsageInMax      string `parquet:"TRESUsageInMax"`
	TRESUsageInMaxNode  string `parquet:"TRESUsageInMaxNode"`
	TRESUsageInMaxTask  string `parquet:"TRESUsageInMaxTask"`
	TRESUsageInMin      string `parquet:"TRESUsageInMin"`
	TRESUsageInMinNode  string `parquet:"TRESUsageInMinNode"`
	TRESUsageInMinTask  string `parquet:"TRESUsageInMinTask"`
	TRESUsageInTot      string `parquet:"TRESUsageInTot"`
	TRESUsageOutAve     string `parquet:"TRESUsageOutAve"`
	TRESUsageOutMax     string `parquet:"TRESUsageOutMax"`
	TRESUsageOutMaxNode string `parquet:"TRESUsageOutMaxNode"`
	TRESUsageOutMaxTask string `parquet:"TRESUsageOutMaxTask"`
	TRESUsageOutMin     string `parquet:"TRESUsageOutMin"`
	TRESUsageOutMinNode string `parquet:"TRESUsageOutMinNode"`
	TRESUsageOutMinTask string `parquet:"TRESUsageOutMinTask"`
	TRESUsageOutTot     string `parquet:"TRESUsageOutTot"`
	UID                 *int64 `parquet:"UID,optional"`
	User                string `parquet:"User"`
	UserCPU             string `parquet:"UserCPU"`
	WCKey               string `parquet:"WCKey"`
	WCKeyID             *int64 `parquet:"WCKeyID,optional"`
	WorkDir             string `parquet:"WorkDir"`
}

// Columns lists the sacct -o ALL output columns in order.
var Columns = []string{
	"Account", "AdminComment", "AllocCPUS", "AllocNodes", "AllocTRES",
	"AssocID", "AveCPU", "AveCPUFreq", "AveDiskRead", "AveDiskWrite",
	"AvePages", "AveRSS", "AveVMSize", "BlockID", "Cluster", "Comment",
	"Constraints", "ConsumedEnergy", "ConsumedEnergyRaw", "Container",
	"CPUTime", "CPUTimeRAW", "DBIndex", "DerivedExitCode", "Elapsed",
	"ElapsedRaw", "Eligible", "End", "ExitCode", "Flags", "GID", "Group",
	"JobID", "JobIDRaw", "JobName", "Layout", "MaxDiskRead",
	"MaxDiskReadNode", "MaxDiskReadTask", "MaxDiskWrite",
	"MaxDiskWriteNode", "MaxDiskWriteTask", "MaxPages", "MaxPagesNode",
	"MaxPagesTask", "MaxRSS", "MaxRSSNode", "MaxRSSTask", "MaxVMSize",
	"MaxVMSizeNode", "MaxVMSizeTask", "McsLabel", "MinCPU", "MinCPUNode",
	"MinCPUTask", "NCPUS", "NNodes", "NodeList", "NTasks", "Partition",
	"Priority", "QOS", "QOSRAW", "Reason", "ReqCPUFreq", "ReqCPUFreqGov",
	"ReqCPUFreqMax", "ReqCPUFreqMin", "ReqCPUS", "ReqMem", "ReqNodes",
	"ReqTRES", "Reservation", "ReservationId", "Reserved", "ResvCPU",
	"ResvCPURAW", "Start", "State", "Submit", "SubmitLine", "Suspended",
	"SystemComment", "SystemCPU", "Timelimit", "TimelimitRaw", "TotalCPU",
	"TRESUsageInAve", "TRESUsageInMax", "TRESUsageInMaxNode",
	"TRESUsageInMaxTask", "TRESUsageInMin", "TRESUsageInMinNode",
	"TRESUsageInMinTask", "TRESUsageInTot", "TRESUsageOutAve",
	"TRESUsageOutMax", "TRESUsageOutMaxNode", "TRESUsageOutMaxTask",
	"TRESUsageOutMin", "TRESUsageOutMinNode", "TRESUsageOutMinTask",
	"TRESUsageOutTot", "UID", "User", "UserCPU", "WCKey", "WCKeyID",
	"WorkDir",
}

// optInt parses an integer column, returning nil for empty or non-numeric
// values (sacct prints blanks for fields that do not apply to a row).
func optInt(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// setField assigns one delimited value to its column. Returns false for a
// column name that is not part of the sacct schema.
func setField(r *JobRow, name, value string) bool {
	switch name {
	case "Account":
		r.Account = value
	case "AdminComment":
		r.AdminComment = value
	case "AllocCPUS":
		r.AllocCPUS = optInt(value)
	case "AllocNodes":
		r.AllocNodes = optInt(value)
	case "AllocTRES":
		r.AllocTRES = value
	case "AssocID":
		r.AssocID = optInt(value)
	case "AveCPU":
		r.AveCPU = value
	case "AveCPUFreq":
		r.AveCPUFreq = value
	case "AveDiskRead":
		r.AveDiskRead = value
	case "AveDiskWrite":
		r.AveDiskWrite = value
	case "AvePages":
		r.AvePages = optInt(value)
	case "AveRSS":
		r.AveRSS = value
	case "AveVMSize":
		r.AveVMSize = value
	case "BlockID":
		r.BlockID = value
	case "Cluster":
		r.Cluster = value
	case "Comment":
		r.Comment = value
	case "Constraints":
		r.Constraints = value
	case "ConsumedEnergy":
		r.ConsumedEnergy = optInt(value)
	case "ConsumedEnergyRaw":
		r.ConsumedEnergyRaw = optInt(value)
	case "Container":
		r.Container = value
	case "CPUTime":
		r.CPUTime = value
	case "CPUTimeRAW":
		r.CPUTimeRAW = optInt(value)
	case "DBIndex":
		r.DBIndex = optInt(value)
	case "DerivedExitCode":
		r.DerivedExitCode = value
	case "Elapsed":
		r.Elapsed = value
	case "ElapsedRaw":
		r.ElapsedRaw = optInt(value)
	case "Eligible":
		r.Eligible = value
	case "End":
		r.End = value
	case "ExitCode":
		r.ExitCode = value
	case "Flags":
		r.Flags = value
	case "GID":
		r.GID = optInt(value)
	case "Group":
		r.Group = value
	case "JobID":
		r.JobID = value
	case "JobIDRaw":
		r.JobIDRaw = value
	case "JobName":
		r.JobName = value
	case "Layout":
		r.Layout = value
	case "MaxDiskRead":
		r.MaxDiskRead = value
	case "MaxDiskReadNode":
		r.MaxDiskReadNode = value
	case "MaxDiskReadTask":
		r.MaxDiskReadTask = optInt(value)
	case "MaxDiskWrite":
		r.MaxDiskWrite = value
	case "MaxDiskWriteNode":
		r.MaxDiskWriteNode = value
	case "MaxDiskWriteTask":
		r.MaxDiskWriteTask = optInt(value)
	case "MaxPages":
		r.MaxPages = optInt(value)
	case "MaxPagesNode":
		r.MaxPagesNode = value
	case "MaxPagesTask":
		r.MaxPagesTask = optInt(value)
	case "MaxRSS":
		r.MaxRSS = value
	case "MaxRSSNode":
		r.MaxRSSNode = value
	case "MaxRSSTask":
		r.MaxRSSTask = optInt(value)
	case "MaxVMSize":
		r.MaxVMSize = value
	case "MaxVMSizeNode":
		r.MaxVMSizeNode = value
	case "MaxVMSizeTask":
		r.MaxVMSizeTask = optInt(value)
	case "McsLabel":
		r.McsLabel = value
	case "MinCPU":
		r.MinCPU = value
	case "MinCPUNode":
		r.MinCPUNode = value
	case "MinCPUTask":
		r.MinCPUTask = optInt(value)
	case "NCPUS":
		r.NCPUS = optInt(value)
	case "NNodes":
		r.NNodes = optInt(value)
	case "NodeList":
		r.NodeList = value
	case "NTasks":
		r.NTasks = optInt(value)
	case "Partition":
		r.Partition = value
	case "Priority":
		r.Priority = optInt(value)
	case "QOS":
		r.QOS = value
	case "QOSRAW":
		r.QOSRAW = optInt(value)
	case "Reason":
		r.Reason = value
	case "ReqCPUFreq":
		r.ReqCPUFreq = value
	case "ReqCPUFreqGov":
		r.ReqCPUFreqGov = value
	case "ReqCPUFreqMax":
		r.ReqCPUFreqMax = value
	case "ReqCPUFreqMin":
		r.ReqCPUFreqMin = value
	case "ReqCPUS":
		r.ReqCPUS = optInt(value)
	case "ReqMem":
		r.ReqMem = value
	case "ReqNodes":
		r.ReqNodes = optInt(value)
	case "ReqTRES":
		r.ReqTRES = value
	case "Reservation":
		r.Reservation = value
	case "ReservationId":
		r.ReservationId = value
	case "Reserved":
		r.Reserved = value
	case "ResvCPU":
		r.ResvCPU = value
	case "ResvCPURAW":
		r.ResvCPURAW = optInt(value)
	case "Start":
		r.Start = value
	case "State":
		r.State = value
	case "Submit":
		r.Submit = value
	case "SubmitLine":
		r.SubmitLine = value
	case "Suspended":
		r.Suspended = value
	case "SystemComment":
		r.SystemComment = value
	case "SystemCPU":
		r.SystemCPU = value
	case "Timelimit":
		r.Timelimit = value
	case "TimelimitRaw":
		r.TimelimitRaw = value
	case "TotalCPU":
		r.TotalCPU = value
	case "TRESUsageInAve":
		r.TRESUsageInAve = value
	case "TRESUsageInMax":
		r.TRESUsageInMax = value
	case "TRESUsageInMaxNode":
		r.TRESUsageInMaxNode = value
	case "TRESUsageInMaxTask":
		r.TRESUsageInMaxTask = value
	case "TRESUsageInMin":
		r.TRESUsageInMin = value
	case "TRESUsageInMinNode":
		r.TRESUsageInMinNode = value
	case "TRESUsageInMinTask":
		r.TRESUsageInMinTask = value
	case "TRESUsageInTot":
		r.TRESUsageInTot = value
	case "TRESUsageOutAve":
		r.TRESUsageOutAve = value
	case "TRESUsageOutMax":
		r.TRESUsageOutMax = value
	case "TRESUsageOutMaxNode":
		r.TRESUsageOutMaxNode = value
	case "TRESUsageOutMaxTask":
		r.TRESUsageOutMaxTask = value
	case "TRESUsageOutMin":
		r.TRESUsageOutMin = value
	case "TRESUsageOutMinNode":
		r.TRESUsageOutMinNode = value
	case "TRESUsageOutMinTask":
		r.TRESUsageOutMinTask = value
	case "TRESUsageOutTot":
		r.TRESUsageOutTot = value
	case "UID":
		r.UID = optInt(value)
	case "User":
		r.User = value
	case "UserCPU":
		r.UserCPU = value
	case "WCKey":
		r.WCKey = value
	case "WCKeyID":
		r.WCKeyID = optInt(value)
	case "WorkDir":
		r.WorkDir = value
	default:
		return false
	}
	return true
}
