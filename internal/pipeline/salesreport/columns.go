package salesreport

// Source columns of the 41110000 (sales) and 41700000 (returns) exports.
// The export carries two "項目" headers; the second one (sales item) is
// addressed with the reader's ".1" suffix.
const (
	colRefDoc      = "參考文件號碼"
	colItem        = "項目"
	colMaterial    = "物料"
	colPlant       = "工廠"
	colCustomer    = "客戶"
	colSalesDoc    = "銷售文件"
	colSalesItem   = "項目.1"
	colAmount      = "以 PCLC 計"
	colQuantity    = "數量"
	colPostingDate = "過帳日期"
	colUnit        = "BUn"
	colEntryDate   = "輸入日期"
)

// lineColumns are the columns the sales and returns exports must both carry.
var lineColumns = []string{
	colRefDoc, colItem, colMaterial, colPlant, colCustomer, colSalesDoc,
	colSalesItem, colAmount, colQuantity, colPostingDate, colUnit, colEntryDate,
}

// zsdc lookup export.
const (
	colZsdcDoc        = "文件"
	colZsdcItem       = "項目"
	colZsdcDesc       = "物料說明"
	colZsdcNetWeight  = "淨重"
	colZsdcPriorDoc   = "先前文件"
	colZsdcBillTo     = "bill-to-name"
	colZsdcContract   = "合約號碼"
	colZsdcPurchaseNo = "採購單號碼"
)

var zsdcColumns = []string{
	colZsdcDoc, colZsdcItem, colZsdcDesc, colZsdcNetWeight,
	colZsdcPriorDoc, colZsdcBillTo, colZsdcContract, colZsdcPurchaseNo,
}

// Contract management sheet.
const (
	colContractNo          = "合約編號"
	colContractProductLine = "產品部"
	colContractChannel     = "通路"
	colContractDepartment  = "部門"
	colContractQuoteNo     = "報價單號"
	colContractRate        = "匯率"
	colContractSales       = "業務"
	colContractCopper      = "報價銅價"
)

// Product group sheet.
const (
	colProductMaterial = "料號"
	colProductGroup    = "產品群"
)

// Quote information sheet (qry_Temp).
const (
	colQuoteContractNo = "合約編號"
	colQuoteCopper     = "銅價+銅價調整"
	colQuoteRate       = "匯率"
)

// Output report headers.
const (
	OutBillingDoc     = "文件(Billing號)"
	OutMaterial       = "物料"
	OutDescription    = "品名"
	OutProductGroup   = "產品群"
	OutPlant          = "工廠"
	OutProductLine    = "線種"
	OutDepartment     = "課別"
	OutChannel        = "通路"
	OutCustomer       = "客戶"
	OutCustomerName   = "客戶名稱"
	OutSalesDoc       = "銷售文件"
	OutSalesItem      = "銷售項目"
	OutBillingItem    = "billing項目"
	OutAmount         = "以 PCLC 計"
	OutQuantity       = "數量"
	OutPostingDate    = "過帳日期"
	OutUnit           = "BUn"
	OutUnitCopper     = "單位用銅"
	OutCopperQty      = "銅量"
	OutContractNo     = "合約號碼"
	OutPurchaseOrder  = "採購單"
	OutClassification = "分類"
	OutQuoteNo        = "報價單號"
	OutQuotedPrice    = "報價銅"
	OutQuotedCost     = "報價銅成本"
	OutExchangeRate   = "匯率"
	OutOrderMonth     = "訂單月"
	OutSalesperson    = "業務員"
)

// OutputColumns is the fixed column order of the generated report.
var OutputColumns = []string{
	OutBillingDoc, OutMaterial, OutDescription, OutProductGroup, OutPlant,
	OutProductLine, OutDepartment, OutChannel, OutCustomer, OutCustomerName,
	OutSalesDoc, OutSalesItem, OutBillingItem, OutAmount, OutQuantity,
	OutPostingDate, OutUnit, OutUnitCopper, OutCopperQty, OutContractNo,
	OutPurchaseOrder, OutClassification, OutQuoteNo, OutQuotedPrice,
	OutQuotedCost, OutExchangeRate, OutOrderMonth, OutSalesperson,
}
